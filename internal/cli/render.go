package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/seedkeeper/internal/common"
	"github.com/dmitrijs2005/seedkeeper/internal/onboarding"
)

// describeError turns err into a message that tells the user whether trying
// again makes sense.
func describeError(err error) string {
	if errors.Is(err, errUnknownCommand) {
		return strings.ToUpper(err.Error()[:1]) + err.Error()[1:]
	}

	switch common.KindOf(err) {
	case common.KindInput:
		return fmt.Sprintf("Invalid input: %v. Please try again.", err)
	case common.KindStorage:
		return fmt.Sprintf("Storage error, nothing was saved: %v. You can retry.", err)
	case common.KindFatal:
		return fmt.Sprintf("Fatal error, this installation cannot continue: %v", err)
	case common.KindFlow:
		return fmt.Sprintf("Not possible right now: %v. Type 'status' to see where you are.", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// renderState prints what the user should see and do in st. Phrase words
// are wiped after printing.
func renderState(w io.Writer, st onboarding.State) {
	switch s := st.(type) {
	case onboarding.Welcome:
		fmt.Fprintln(w, "Welcome! Type 'create' for a new wallet or 'import' to restore one from a recovery phrase.")

	case onboarding.AwaitingPassword:
		fmt.Fprintln(w, "Choose a password: at least 8 characters with upper and lower case letters, a digit and a symbol.")
		fmt.Fprintln(w, "Type 'password' to enter it, or 'back'.")

	case onboarding.ImportPhrase:
		fmt.Fprintln(w, "Type 'import' to enter your recovery phrase, or 'back'.")

	case onboarding.PhraseDisplay:
		fmt.Fprintln(w, "Your recovery phrase. Write the words down in order and keep them offline:")
		for i, word := range s.Words {
			fmt.Fprintf(w, "  %2d. %s\n", i+1, word)
			common.WipeByteArray(word)
		}
		fmt.Fprintf(w, "Address: %s\n", s.Address)
		fmt.Fprintln(w, "Type 'ack' once the phrase is recorded, or 'back'.")

	case onboarding.PhraseConfirmation:
		nums := make([]string, len(s.Positions))
		for i, p := range s.Positions {
			nums[i] = fmt.Sprintf("#%d", p+1)
		}
		fmt.Fprintf(w, "Type 'confirm' and enter words %s of your phrase, or 'back' to see it again.\n", strings.Join(nums, ", "))
		if s.Attempts > 0 {
			fmt.Fprintf(w, "Failed attempts: %d\n", s.Attempts)
		}

	case onboarding.FinalizePassword:
		fmt.Fprintf(w, "Phrase accepted for %s.\n", s.Address)
		fmt.Fprintln(w, "Type 'finalize' to choose a password, or 'back'.")

	case onboarding.Success:
		fmt.Fprintf(w, "Wallet %s is ready. Type 'done' to get started.\n", s.Address)

	case onboarding.Dashboard:
		fmt.Fprintf(w, "Address: %s\n", s.Address)
	}
}
