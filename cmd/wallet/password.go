package wallet

import (
	"fmt"
	"os"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

const minPasswordLength = 8

// passwordEnv skips the prompt, for scripted use.
const passwordEnv = "WALLET_KEYSTORE_PASSWORD"

// promptPassword prompts for password input (hides input)
func promptPassword(prompt string) (string, error) {
	if password, ok := os.LookupEnv(passwordEnv); ok {
		return password, nil
	}

	fmt.Fprint(os.Stderr, prompt)

	passwordBytes, err := term.ReadPassword(syscall.Stdin)
	if err != nil {
		return "", errors.Wrap(err, "failed to read password from terminal")
	}

	fmt.Fprintln(os.Stderr)

	return string(passwordBytes), nil
}

func promptNewPassword() (string, error) {
	password, err := promptPassword(fmt.Sprintf("Enter password for keystore (min %d characters): ", minPasswordLength))
	if err != nil {
		return "", err
	}

	if len(password) < minPasswordLength {
		return "", errors.Errorf("password must be at least %d characters", minPasswordLength)
	}

	if _, ok := os.LookupEnv(passwordEnv); ok {
		return password, nil
	}

	passwordConfirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return "", errors.Wrap(err, "failed to read password confirmation")
	}

	if password != passwordConfirm {
		return "", errors.New("passwords do not match")
	}

	return password, nil
}
