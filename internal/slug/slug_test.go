package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"This Is A Test Post", "this-is-a-test-post"},
		{"This is a test post", "this-is-a-test-post"},
		{"Category 1", "category-1"},
		{"  leading and trailing  ", "leading-and-trailing"},
		{"Hello, World!", "hello-world"},
		{"C++ & Go -- a comparison", "c-go-a-comparison"},
		{"Crème Brûlée", "creme-brulee"},
		{"01. Test post", "01-test-post"},
		{"already-a-slug", "already-a-slug"},
		{"---", ""},
		{"", ""},
		{"tab\tand\nnewline", "tab-and-newline"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Make(tc.in))
		})
	}
}

func TestMake_Idempotent(t *testing.T) {
	inputs := []string{
		"This Is A Test Post",
		"Crème Brûlée",
		"Ünïcödé Çategory 42",
		"한국어 제목",
		"MiXeD-CaSe__under_score",
	}
	for _, in := range inputs {
		once := Make(in)
		assert.Equal(t, once, Make(once), "slug of %q is not stable", in)
	}
}

func TestMake_CaseInsensitive(t *testing.T) {
	assert.Equal(t, Make("this is a test post"), Make("THIS IS A TEST POST"))
}
