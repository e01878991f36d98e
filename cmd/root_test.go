package cmd

import (
	"testing"

	"did/internal/errs"
)

func TestValidateKeywords(t *testing.T) {
	if err := validateKeywords(nil, []string{"last", "week"}); err != nil {
		t.Errorf("last week rejected: %v", err)
	}
	err := validateKeywords(nil, []string{"fortnight"})
	if !errs.IsUsage(err) {
		t.Errorf("unknown keyword must be a usage error, got %v", err)
	}
}

func TestConfigPathFromArgs(t *testing.T) {
	for _, tc := range []struct {
		args []string
		want string
	}{
		{[]string{"--config", "/tmp/c.ini"}, "/tmp/c.ini"},
		{[]string{"last", "week", "--config=/tmp/c.ini"}, "/tmp/c.ini"},
		{[]string{"--config"}, ""},
		{nil, ""},
	} {
		got := configPathFromArgs(tc.args)
		if tc.want != "" && got != tc.want {
			t.Errorf("configPathFromArgs(%v) = %q, want %q", tc.args, got, tc.want)
		}
		if tc.want == "" && got == "" {
			t.Errorf("configPathFromArgs(%v) must fall back to the default path", tc.args)
		}
	}
}

func TestWantsHelp(t *testing.T) {
	if !wantsHelp([]string{"--help"}) || !wantsHelp([]string{"-h"}) || !wantsHelp([]string{"help"}) {
		t.Error("help forms not detected")
	}
	if wantsHelp([]string{"last", "week"}) {
		t.Error("plain args must not trigger help")
	}
}
