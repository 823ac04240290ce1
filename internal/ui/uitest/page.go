package uitest

// Page holds the elements of the portfolio markup built by NewPage. It
// mirrors web/templates/index.html.
type Page struct {
	Doc    *Document
	Window *Window
	Loop   *Loop

	Navbar    *Element
	Hamburger *Element
	NavMenu   *Element
	NavLinks  []*Element

	Greeting  *Element
	CTA       *Element
	About     *Element
	Projects  *Element
	Contact   *Element
	EmptyLink *Element

	Form         *Element
	Name         *Element
	Email        *Element
	Message      *Element
	NameError    *Element
	EmailError   *Element
	MessageError *Element
	SubmitButton *Element

	ScrollTop *Element
}

// NewPage builds the full portfolio page on a fresh loop, document and
// window. The DOM is not marked ready.
func NewPage() *Page {
	loop := NewLoop()
	d := NewDocument(loop)
	p := &Page{Doc: d, Window: NewWindow(loop), Loop: loop}

	p.Navbar = d.Add(nil, "nav", "", "navbar")
	brand := d.Add(p.Navbar, "a", "", "nav-logo")
	brand.SetAttr("href", "#home")
	p.NavMenu = d.Add(p.Navbar, "ul", "", "nav-menu")
	for _, target := range []string{"#home", "#about", "#projects", "#contact"} {
		li := d.Add(p.NavMenu, "li", "", "nav-item")
		link := d.Add(li, "a", "", "nav-link")
		link.SetAttr("href", target)
		p.NavLinks = append(p.NavLinks, link)
	}
	p.Hamburger = d.Add(p.Navbar, "div", "", "hamburger")
	for i := 0; i < 3; i++ {
		d.Add(p.Hamburger, "span", "", "bar")
	}

	home := d.Add(nil, "section", "home", "hero")
	p.Greeting = d.Add(home, "h1", "greeting")
	p.CTA = d.Add(home, "button", "", "cta-button")

	p.About = d.Add(nil, "section", "about")
	p.About.SetOffsetTop(800)
	p.Projects = d.Add(nil, "section", "projects")
	p.Projects.SetOffsetTop(1600)
	p.EmptyLink = d.Add(p.Projects, "a", "", "project-link")
	p.EmptyLink.SetAttr("href", "#")

	p.Contact = d.Add(nil, "section", "contact")
	p.Contact.SetOffsetTop(2400)
	p.Form = d.Add(p.Contact, "form", "contactForm", "contact-form")
	p.Name = d.Add(p.Form, "input", "name")
	p.NameError = d.Add(p.Form, "span", "nameError", "error-message")
	p.Email = d.Add(p.Form, "input", "email")
	p.EmailError = d.Add(p.Form, "span", "emailError", "error-message")
	p.Message = d.Add(p.Form, "textarea", "message")
	p.MessageError = d.Add(p.Form, "span", "messageError", "error-message")
	p.SubmitButton = d.Add(p.Form, "button", "", "submit-btn")
	p.SubmitButton.SetHTML("Send Message")

	p.ScrollTop = d.Add(nil, "button", "scrollTop", "scroll-top")
	return p
}

// Fill sets the three contact fields without firing input events.
func (p *Page) Fill(name, email, message string) {
	p.Name.SetValue(name)
	p.Email.SetValue(email)
	p.Message.SetValue(message)
}
