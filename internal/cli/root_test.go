package cli

import "testing"

func TestRootCmd_SubcommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"check", "version"} {
		if !names[want] {
			t.Errorf("expected %q subcommand to be registered", want)
		}
	}
}
