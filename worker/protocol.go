package worker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	"github.com/perfworkshop/workshop/errext"
	"github.com/perfworkshop/workshop/errext/exitcodes"
)

// Replies can be arbitrarily large results; allow up to 16 MiB per line.
const (
	initialLineBuffer = 64 * 1024
	maxLineBuffer     = 16 * 1024 * 1024
)

// request is one invocation of the worker's implementation.
type request struct {
	ID   int64         `json:"id"`
	Args []interface{} `json:"args"`
}

// Error is an error reply sent by a worker implementation.
type Error struct {
	Name    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// ExitCode returns the exit code used when a worker reports an error.
func (e *Error) ExitCode() exitcodes.ExitCode {
	return exitcodes.ScriptException
}

var _ errext.HasExitCode = &Error{}

// conn drives the line protocol over an arbitrary reader/writer pair, so the
// framing can be tested without a real subprocess.
type conn struct {
	name   string
	w      io.Writer
	sc     *bufio.Scanner
	lastID int64
}

func newConn(name string, w io.Writer, r io.Reader) *conn {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initialLineBuffer), maxLineBuffer)
	return &conn{name: name, w: w, sc: sc}
}

// roundTrip sends one request and decodes the matching reply. Replies are
// peeked at with gjson first, so the result payload is only unmarshalled when
// the reply is well-formed.
func (c *conn) roundTrip(args []interface{}) (interface{}, error) {
	c.lastID++
	req := request{ID: c.lastID, Args: args}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("could not encode request for worker '%s': %w", c.name, err)
	}
	if _, err := c.w.Write(append(data, '\n')); err != nil {
		return nil, fmt.Errorf("could not write to worker '%s': %w", c.name, err)
	}

	if !c.sc.Scan() {
		err := c.sc.Err()
		if err == nil {
			err = io.EOF
		}
		return nil, errext.WithHint(
			fmt.Errorf("worker '%s' stopped responding: %w", c.name, err),
			"rerun with -v to see the worker's stderr",
		)
	}
	line := c.sc.Bytes()

	if !gjson.ValidBytes(line) {
		return nil, fmt.Errorf("worker '%s' sent an invalid reply: %q", c.name, line)
	}
	if id := gjson.GetBytes(line, "id"); !id.Exists() || id.Int() != req.ID {
		return nil, fmt.Errorf("worker '%s' replied to request %s, expected %d",
			c.name, id.Raw, req.ID)
	}
	if errField := gjson.GetBytes(line, "error"); errField.Exists() {
		return nil, &Error{Name: c.name, Message: errField.String()}
	}

	result := gjson.GetBytes(line, "result")
	if !result.Exists() {
		return nil, fmt.Errorf("worker '%s' sent a reply with neither result nor error", c.name)
	}
	var v interface{}
	if err := json.Unmarshal([]byte(result.Raw), &v); err != nil {
		return nil, fmt.Errorf("could not decode result from worker '%s': %w", c.name, err)
	}
	return v, nil
}
