package service

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// Console streams; nil means the process stdout and stdin.
	stdout io.Writer
	stdin  io.Reader
)

func output() io.Writer {
	if stdout != nil {
		return stdout
	}
	return os.Stdout
}

func input() io.Reader {
	if stdin != nil {
		return stdin
	}
	return os.Stdin
}

// confirm asks a yes/no question on stdout and reads the answer from stdin.
func confirm(question string) bool {
	fmt.Fprintf(output(), "%s [y/N] ", question)
	answer, _ := bufio.NewReader(input()).ReadString('\n')
	answer = strings.TrimSpace(answer)
	return answer == "y" || answer == "Y"
}
