package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStrong(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"Passw0rd!", true},
		{"Zx9$abcd", true},
		{"A1b2C3d4&", true},
		{"password", false},
		{"PASSWORD1!", false},
		{"password1!", false},
		{"Password!", false},
		{"Password1", false},
		{"Pass 0rd!", false},
		{"Passw0rd#", false},
		{"Pässw0rd!", false},
		{"Sh0rt!", false},
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, IsStrong(tc.password), "password %q", tc.password)
	}
}

func TestShortPasswordsAreNeverStrong(t *testing.T) {
	base := "Aa1!Aa1!"
	for n := 0; n < MinLength; n++ {
		assert.False(t, IsStrong(base[:n]), "length %d", n)
	}
}

func TestCheckReportsTooCommonFirst(t *testing.T) {
	assert.ErrorIs(t, Check("password"), ErrTooCommon)
	assert.ErrorIs(t, Check("PASSWORD"), ErrTooCommon)
	assert.ErrorIs(t, Check("Password1!"), ErrTooCommon)
	assert.ErrorIs(t, Check("PASSW0RD1!"), ErrWeak)
	assert.NoError(t, Check("Passw0rd!"))
}

func TestCheckPtrNilIsWeak(t *testing.T) {
	assert.ErrorIs(t, CheckPtr(nil), ErrWeak)

	pw := "Passw0rd!"
	assert.NoError(t, CheckPtr(&pw))
}

func TestPolicyExtraCommon(t *testing.T) {
	p := NewPolicy(" BlogAdm1n! ", "")

	assert.ErrorIs(t, p.Check("blogadm1n!"), ErrTooCommon)
	assert.True(t, p.IsStrong("Passw0rd!"))
	assert.True(t, IsStrong("BlogAdm1n!"), "default policy is unaffected")
}

func TestCheckIsDeterministic(t *testing.T) {
	inputs := []string{"Passw0rd!", "password", strings.Repeat("a", 40)}
	for _, in := range inputs {
		assert.Equal(t, Check(in), Check(in))
	}
}
