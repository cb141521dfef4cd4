package assets

// Registry lists embedded templates available at runtime.
// Update this when adding/removing templates.

type TemplateInfo struct {
	Family string // page, provider, class
	Name   string // selector used on the command line
	Label  string // human-readable name
	Path   string // path inside embedded_templates
}

const (
	FamilyPage     = "page"
	FamilyProvider = "provider"
	FamilyClass    = "class"
)

var Registry = []TemplateInfo{
	{Family: FamilyPage, Name: "stateless", Label: "Stateless Page", Path: "page/stateless.dart.hbs"},
	{Family: FamilyPage, Name: "stateful", Label: "Stateful Page", Path: "page/stateful.dart.hbs"},
	{Family: FamilyPage, Name: "hook", Label: "Stateless Hook Page", Path: "page/hook.dart.hbs"},
	{Family: FamilyProvider, Name: "function", Label: "Provider (function)", Path: "provider/function.dart.hbs"},
	{Family: FamilyProvider, Name: "class", Label: "Provider (class)", Path: "provider/class.dart.hbs"},
	{Family: FamilyClass, Name: "class", Label: "Class declaration", Path: "class/class.dart.hbs"},
}

// Lookup finds a template by family and name.
func Lookup(family, name string) (TemplateInfo, bool) {
	for _, info := range Registry {
		if info.Family == family && info.Name == name {
			return info, true
		}
	}
	return TemplateInfo{}, false
}

// Names returns the template names of a family in registry order.
func Names(family string) []string {
	var names []string
	for _, info := range Registry {
		if info.Family == family {
			names = append(names, info.Name)
		}
	}
	return names
}
