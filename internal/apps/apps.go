// Package apps holds the registry of optional Frappe applications the
// deploy wizard offers for installation alongside ERPNext.
package apps

// App describes an installable Frappe application.
type App struct {
	// Name is the repository name on github.com/frappe and the bench
	// app name, e.g. "hrms".
	Name string

	// Title is the human-readable name shown in prompts and summaries.
	Title string

	// Description is a one-line summary shown next to the title.
	Description string
}

// catalog lists the supported optional apps in display order. Only apps
// maintained under the frappe organization are offered here; anything
// else can still be installed manually with bench get-app.
var catalog = []App{
	{Name: "hrms", Title: "Frappe HR", Description: "Human resources and payroll management"},
	{Name: "payments", Title: "Payments", Description: "Payment gateway integrations"},
	{Name: "healthcare", Title: "Healthcare", Description: "Clinical records and patient management"},
	{Name: "education", Title: "Education", Description: "Student and institute management"},
	{Name: "lending", Title: "Lending", Description: "Loan origination and servicing"},
	{Name: "webshop", Title: "Webshop", Description: "Shopping cart and storefront"},
	{Name: "print_designer", Title: "Print Designer", Description: "Visual print format builder"},
	{Name: "wiki", Title: "Wiki", Description: "Documentation and knowledge base"},
}

// Catalog returns the optional apps in display order.
func Catalog() []App {
	out := make([]App, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the registry entry for name.
func Lookup(name string) (App, bool) {
	for _, a := range catalog {
		if a.Name == name {
			return a, true
		}
	}
	return App{}, false
}

// Known reports whether name is a registered optional app.
func Known(name string) bool {
	_, ok := Lookup(name)
	return ok
}
