package bundle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	b, err := New("en", map[string]string{
		"en": "hello = Hello",
		"fr": "hello = Bonjour",
	})
	require.NoError(t, err)
	require.Equal(t, "en", b.Main)
	require.Equal(t, "hello = Hello", b.MainSource())
	require.Equal(t, []string{"en", "fr"}, b.Locales())
}

func TestNew_MainLocaleMissing(t *testing.T) {
	_, err := New("de", map[string]string{"en": "hello = Hello"})
	require.ErrorIs(t, err, ErrMainLocaleMissing)
	require.Contains(t, err.Error(), `"de"`)
}

func TestNew_InvalidLocaleID(t *testing.T) {
	_, err := New("en", map[string]string{
		"en":       "hello = Hello",
		"no!t-a/l": "hello = ???",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid locale id")
}

func TestNew_RegionalTags(t *testing.T) {
	b, err := New("pt-BR", map[string]string{
		"pt-BR": "hello = Olá",
		"zh-CN": "hello = 你好",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"pt-BR", "zh-CN"}, b.Locales())
}
