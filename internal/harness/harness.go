// Package harness drives a queue from line oriented commands, checks every
// result against the expected queue state and injects allocation failures.
package harness

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/lueurxax/strqueue/internal/alloc"
	"github.com/lueurxax/strqueue/internal/harness/metrics"
	"github.com/lueurxax/strqueue/internal/log"
	"github.com/lueurxax/strqueue/internal/queue"
	"github.com/lueurxax/strqueue/pkg/utils"
)

const (
	cmdKey         = "cmd"
	unknownCommand = "unknown"
	commentPrefix  = "#"
)

var (
	ErrCommandsFailed = errors.New("harness commands failed")
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("wrong arguments")

	errQuit = errors.New("quit")
)

type Harness interface {
	// Run executes commands from r until EOF, quit or ctx is done, then frees the queue.
	Run(ctx context.Context, r io.Reader) error
	Exec(line string) error
	Errors() int
}

type command struct {
	run   func(args []string) error
	usage string
	doc   string
}

type harness struct {
	cfg    Config
	out    io.Writer
	prompt string

	alloc    alloc.FaultyAllocator
	q        *queue.Queue
	expected int
	errors   int
	commands map[string]command

	metrics metrics.Metrics
	log     log.Logger
}

func (h *harness) Run(ctx context.Context, r io.Reader) error {
	h.log.WithFields(map[string]interface{}{
		"fail_percent":  h.alloc.FailPercent(),
		"buffer_length": h.cfg.BufferLength,
	}).Debug("harness started")

	scanner := bufio.NewScanner(r)

	for ctx.Err() == nil {
		h.printPrompt()

		if !scanner.Scan() {
			break
		}

		if err := h.Exec(scanner.Text()); errors.Is(err, errQuit) {
			break
		}
	}

	h.finish()

	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "read commands")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if h.errors > 0 {
		return errors.Wrapf(ErrCommandsFailed, "%d errors", h.errors)
	}

	return nil
}

func (h *harness) Exec(line string) error {
	words := utils.Split(line)
	if len(words) == 0 || strings.HasPrefix(words[0], commentPrefix) {
		return nil
	}

	name, args := words[0], words[1:]
	h.log.WithField(cmdKey, name).Debugf("exec %v", args)

	cmd, ok := h.commands[name]
	if !ok {
		err := errors.Wrap(ErrUnknownCommand, name)
		h.metrics.Observe(unknownCommand, err)
		h.fail(name, err)

		return err
	}

	err := cmd.run(args)
	if errors.Is(err, errQuit) {
		h.metrics.Observe(name, nil)

		return err
	}

	h.metrics.Observe(name, err)

	if err != nil {
		if errors.Is(err, ErrUsage) {
			err = errors.Wrapf(err, "usage: %s", cmd.usage)
		}

		err = errors.Wrap(err, name)
		h.fail(name, err)
	}

	return err
}

func (h *harness) Errors() int {
	return h.errors
}

func (h *harness) fail(name string, err error) {
	h.errors++
	h.printf("ERROR: %v\n", err)
	h.log.WithError(err).WithField(cmdKey, name).Debug("command failed")
}

func (h *harness) finish() {
	if h.q != nil {
		_ = h.Exec("free")
	}

	h.metrics.Report()
	h.log.WithField("errors", h.errors).Info("harness finished")
}

// verify compares the queue with the state the harness expects after a command.
func (h *harness) verify() error {
	if err := h.q.Check(); err != nil {
		return err
	}

	if size := h.q.Size(); size != h.expected {
		return errors.Errorf("queue size %d, expected %d", size, h.expected)
	}

	if h.cfg.Verbose {
		return h.show(false)
	}

	return nil
}

// refused reports a failed allocation, an error only while no failures are injected.
func (h *harness) refused(what string) error {
	if h.alloc.FailPercent() == 0 {
		return errors.Errorf("%s failed without injected allocation failures", what)
	}

	h.printf("WARNING: %s failed, allocation refused\n", what)

	return nil
}

func (h *harness) printPrompt() {
	if h.prompt != "" {
		h.printf("%s", h.prompt)
	}
}

func (h *harness) printf(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(h.out, format, args...); err != nil {
		h.log.WithError(err).Warn("write output")
	}
}

// NewHarness returns a harness writing results to out. A non-empty prompt is printed before every line read.
func NewHarness(cfg Config, out io.Writer, prompt string, m metrics.Metrics, logger log.Logger) Harness {
	h := &harness{
		cfg:     cfg,
		out:     out,
		prompt:  prompt,
		alloc:   alloc.NewFaulty(cfg.Seed, cfg.FailPercent),
		metrics: m,
		log:     logger,
	}
	h.cfg.BufferLength = max(0, cfg.BufferLength)
	h.commands = h.newCommands()

	return h
}
