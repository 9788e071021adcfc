package grammar

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/dhamidi/lemonwrap/buffer"
	"github.com/dhamidi/lemonwrap/mem"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("lemonwrap.grammar")

var lineRE = regexp.MustCompile(`(?i)\bline[: ]+(\d+)`)

// LineFromMessage extracts the first "line N" mentioned in an engine
// message, or 0.
func LineFromMessage(msg string) int {
	m := lineRE.FindStringSubmatch(msg)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// Command runs an external program that reads program text on stdin and
// writes the parse result to stdout.
type Command struct {
	Path  string
	Args  []string
	Dir   string
	Env   []string
	Alloc mem.Allocator
}

// NewCommand builds a Command from an argv slice.
func NewCommand(argv []string, alloc mem.Allocator) (*Command, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errors.New("exec backend: no command configured")
	}
	return &Command{Path: argv[0], Args: argv[1:], Alloc: alloc}, nil
}

func (c *Command) Parse(input []byte, diag *Diagnostics) (*Result, error) {
	out, err := buffer.New(c.Alloc)
	if err != nil {
		return nil, err
	}

	var stderr bytes.Buffer
	cmd := exec.Command(c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdin = bytes.NewReader(CString(input))
	cmd.Stdout = out
	cmd.Stderr = &stderr

	log.Debugf("running %s %s", c.Path, strings.Join(c.Args, " "))
	if err := cmd.Run(); err != nil {
		out.Release()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			perr := &ParseError{Message: strings.TrimSpace(stderr.String())}
			if perr.Message == "" {
				perr.Message = exitErr.Error()
			}
			perr.Line = LineFromMessage(perr.Message)
			if diag != nil {
				*diag = perr.Diagnostics
			}
			return nil, perr
		}
		return nil, fmt.Errorf("run %s: %w", c.Path, err)
	}

	if err := out.Finalize(); err != nil {
		out.Release()
		return nil, err
	}
	if diag != nil {
		*diag = Diagnostics{}
	}
	return WrapResult(out.Text(), out.Release), nil
}
