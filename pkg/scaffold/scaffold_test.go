package scaffold

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageTemplates(t *testing.T) {
	assert.Equal(t, []string{"stateless", "stateful", "hook"}, PageTemplates())
	assert.Equal(t, []string{"function", "class"}, ProviderKinds())
	assert.Equal(t, []string{"abstract", "abstract-interface", "class", "interface", "sealed"}, ClassKinds())
}

func TestPageStateless(t *testing.T) {
	f, err := Page("HomePage", "stateless")
	require.NoError(t, err)

	assert.Equal(t, "home_page.dart", f.FileName())
	assert.Contains(t, f.Content, "class HomePage extends StatelessWidget {")
	assert.Contains(t, f.Content, "const HomePage({super.key});")
	assert.Contains(t, f.Content, "title: const Text('Home Page'),")
	assert.Contains(t, f.Content, "'Home Page works!'")
}

func TestPageStatefulAndHook(t *testing.T) {
	f, err := Page("SettingsPage", "stateful")
	require.NoError(t, err)
	assert.Contains(t, f.Content, "State<SettingsPage> createState() => _SettingsPageState();")
	assert.Contains(t, f.Content, "class _SettingsPageState extends State<SettingsPage> {")

	f, err = Page("ProfilePage", "hook")
	require.NoError(t, err)
	assert.Contains(t, f.Content, "import 'package:flutter_hooks/flutter_hooks.dart';")
	assert.Contains(t, f.Content, "class ProfilePage extends HookWidget {")
}

func TestPageRejectsBadInput(t *testing.T) {
	_, err := Page("homePage", "stateless")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = Page("Home2", "stateless")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = Page("HomePage", "fancy")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestClassKinds(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"class", "class UserRepository {}\n"},
		{"sealed", "sealed class UserRepository {}\n"},
		{"abstract", "abstract class UserRepository {}\n"},
		{"interface", "interface class UserRepository {}\n"},
		{"abstract-interface", "abstract interface class UserRepository {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			f, err := Class("UserRepository", tt.kind)
			require.NoError(t, err)
			assert.Equal(t, "user_repository", f.Name)
			assert.Equal(t, tt.want, f.Content)
		})
	}

	_, err := Class("UserRepository", "mixin")
	assert.ErrorIs(t, err, ErrUnknownKind)
	_, err = Class("user", "class")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestProvider(t *testing.T) {
	f, err := Provider("CurrentUser", "function")
	require.NoError(t, err)
	assert.Equal(t, "current_user.dart", f.FileName())
	assert.Contains(t, f.Content, "part 'current_user.g.dart';")
	assert.Contains(t, f.Content, "Future<void> currentUser(Ref ref) async {")

	f, err = Provider("CurrentUser", "class")
	require.NoError(t, err)
	assert.Contains(t, f.Content, "class CurrentUser extends _CurrentUser {")

	_, err = Provider("CurrentUser", "notifier")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestWriter(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs)
	f := &File{Name: "home_page", Content: "v1"}

	path, err := w.Write("/app/lib/pages", f, false)
	require.NoError(t, err)
	assert.Equal(t, "/app/lib/pages/home_page.dart", path)

	_, err = w.Write("/app/lib/pages", &File{Name: "home_page", Content: "v2"}, false)
	require.ErrorIs(t, err, ErrFileExists)
	data, _ := afero.ReadFile(fs, path)
	assert.Equal(t, "v1", string(data), "existing file is kept without force")

	_, err = w.Write("/app/lib/pages", &File{Name: "home_page", Content: "v2"}, true)
	require.NoError(t, err)
	data, _ = afero.ReadFile(fs, path)
	assert.Equal(t, "v2", string(data))
}
