//go:build !windows

package utils

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

func ShowDialog(title, message string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
}

// Confirm asks on the terminal. Anything but an explicit "n" counts as OK.
func Confirm(title, message string) bool {
	fmt.Fprintf(os.Stderr, "%s: %s [Y/n] ", title, message)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return true
	}
	return !strings.EqualFold(strings.TrimSpace(line), "n")
}
