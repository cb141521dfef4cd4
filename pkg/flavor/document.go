package flavor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/flutterkit/pkg/logger"
	"github.com/fulmenhq/flutterkit/pkg/manifest"
	"github.com/fulmenhq/flutterkit/pkg/project"
)

// Flavor is one entry under flavors in flavorizr.yaml.
type Flavor struct {
	App     AppName        `yaml:"app"`
	Android *AndroidFlavor `yaml:"android,omitempty"`
	IOS     *AppleFlavor   `yaml:"ios,omitempty"`
	MacOS   *AppleFlavor   `yaml:"macos,omitempty"`
}

type AppName struct {
	Name string `yaml:"name"`
}

type FirebaseConfig struct {
	Config string `yaml:"config"`
}

type AndroidFlavor struct {
	ApplicationID string          `yaml:"applicationId"`
	Firebase      *FirebaseConfig `yaml:"firebase,omitempty"`
	Icon          string          `yaml:"icon"`
}

type AppleFlavor struct {
	BundleID string          `yaml:"bundleId"`
	Firebase *FirebaseConfig `yaml:"firebase,omitempty"`
	Icon     string          `yaml:"icon,omitempty"`
}

type buildSettings struct {
	DevelopmentTeam string `yaml:"DEVELOPMENT_TEAM"`
}

type appleApp struct {
	BuildSettings buildSettings `yaml:"buildSettings"`
}

type androidApp struct {
	FlavorDimensions string `yaml:"flavorDimensions"`
}

type appSection struct {
	Android *androidApp `yaml:"android,omitempty"`
	IOS     *appleApp   `yaml:"ios,omitempty"`
	MacOS   *appleApp   `yaml:"macos,omitempty"`
}

type header struct {
	App          appSection `yaml:"app"`
	IDE          string     `yaml:"ide"`
	Instructions []string   `yaml:"instructions"`
}

var (
	androidInstructions = []string{
		"android:flavorizrGradle",
		"android:buildGradle",
		"android:androidManifest",
		"android:dummyAssets",
		"android:icons",
	}
	iosInstructions = []string{
		"ios:podfile",
		"ios:xcconfig",
		"ios:buildTargets",
		"ios:schema",
		"ios:dummyAssets",
		"ios:icons",
		"ios:plist",
		"ios:launchScreen",
	}
	macosInstructions = []string{
		"macos:podfile",
		"macos:xcconfig",
		"macos:configs",
		"macos:buildTargets",
		"macos:schema",
		"macos:dummyAssets",
		"macos:icons",
		"macos:plist",
	}
)

// Instructions returns the flavorizr processor list for the given platforms.
func Instructions(platforms []string, firebase bool) []string {
	out := []string{"assets:download", "assets:extract", "ide:config"}
	if firebase {
		out = append(out, "firebase:config")
	}
	if project.Supports(platforms, "android") {
		out = append(out, androidInstructions...)
	}
	if project.Supports(platforms, "ios") {
		out = append(out, iosInstructions...)
	}
	if project.Supports(platforms, "macos") {
		out = append(out, macosInstructions...)
	}
	return append(out, "assets:clean")
}

// NewFlavor builds the entry for name. appID is the Android application id
// base used as <appID>.<name>.
func NewFlavor(name, appID string, platforms []string, firebase bool) Flavor {
	f := Flavor{App: AppName{Name: name}}
	icon := fmt.Sprintf("assets/icons/%s/ic_launcher.png", name)

	if project.Supports(platforms, "android") {
		f.Android = &AndroidFlavor{
			ApplicationID: appID + "." + name,
			Icon:          icon,
		}
		if firebase {
			f.Android.Firebase = &FirebaseConfig{Config: fmt.Sprintf("%s/%s/google-services.json", firebaseDir, name)}
		}
	}
	if project.Supports(platforms, "ios") {
		f.IOS = &AppleFlavor{BundleID: placeholderBundle + "." + name, Icon: icon}
		if firebase {
			f.IOS.Firebase = &FirebaseConfig{Config: fmt.Sprintf("%s/%s/GoogleService-Info.plist", firebaseDir, name)}
		}
	}
	if project.Supports(platforms, "macos") {
		f.MacOS = &AppleFlavor{BundleID: placeholderBundle + "." + name}
		if firebase {
			f.MacOS.Firebase = &FirebaseConfig{Config: fmt.Sprintf("%s/%s/GoogleService-Info.plist", firebaseDir, name)}
		}
	}
	return f
}

func (m *Manager) flavorNode(p Project, name string) (*yaml.Node, error) {
	var node yaml.Node
	if err := node.Encode(NewFlavor(name, m.applicationID(p.Root), p.Platforms, p.Firebase)); err != nil {
		return nil, fmt.Errorf("encode flavor %s: %w", name, err)
	}
	return &node, nil
}

func (m *Manager) defaultDocument(p Project) (*manifest.Document, error) {
	h := header{IDE: "vscode", Instructions: Instructions(p.Platforms, p.Firebase)}
	if project.Supports(p.Platforms, "android") {
		h.App.Android = &androidApp{FlavorDimensions: "app"}
	}
	if project.Supports(p.Platforms, "ios") {
		h.App.IOS = &appleApp{BuildSettings: buildSettings{DevelopmentTeam: placeholderTeam}}
	}
	if project.Supports(p.Platforms, "macos") {
		h.App.MacOS = &appleApp{BuildSettings: buildSettings{DevelopmentTeam: placeholderTeam}}
	}

	var encoded yaml.Node
	if err := encoded.Encode(h); err != nil {
		return nil, fmt.Errorf("encode flavor file: %w", err)
	}

	doc, err := manifest.Parse(nil)
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	root.Content = append(root.Content, encoded.Content...)

	flavors := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, name := range DefaultFlavors {
		node, err := m.flavorNode(p, name)
		if err != nil {
			return nil, err
		}
		manifest.Set(flavors, name, node)
	}
	manifest.Set(root, flavorsKey, flavors)
	return doc, nil
}

// applicationID reads the package attribute of the Android main manifest.
// Projects created by recent Flutter versions declare the namespace in
// Gradle instead, in which case a placeholder is returned.
func (m *Manager) applicationID(root string) string {
	path := filepath.Join(root, "android", "app", "src", "main", "AndroidManifest.xml")
	data, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return placeholderAppID
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		logger.Warn("Failed to parse AndroidManifest.xml", logger.String("path", path), logger.Err(err))
		return placeholderAppID
	}
	el := doc.SelectElement("manifest")
	if el == nil {
		return placeholderAppID
	}
	if pkg := strings.TrimSpace(el.SelectAttrValue("package", "")); pkg != "" {
		return pkg
	}
	return placeholderAppID
}
