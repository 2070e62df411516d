package harness

import (
	"sort"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/lueurxax/strqueue/internal/queue"
	"github.com/lueurxax/strqueue/pkg/utils"
)

type snapshot struct {
	Size   int      `json:"size"`
	Values []string `json:"values"`
}

func (h *harness) newCommands() map[string]command {
	return map[string]command{
		"new":     {run: h.doNew, usage: "new", doc: "Create new queue"},
		"free":    {run: h.doFree, usage: "free", doc: "Delete queue"},
		"ih":      {run: h.doInsertHead, usage: "ih str [n]", doc: "Insert string str at head of queue n times (default: n == 1)"},
		"it":      {run: h.doInsertTail, usage: "it str [n]", doc: "Insert string str at tail of queue n times (default: n == 1)"},
		"rh":      {run: h.doRemoveHead, usage: "rh [str]", doc: "Remove from head of queue. Optionally compare to expected value str"},
		"rhq":     {run: h.doRemoveHeadQuiet, usage: "rhq", doc: "Remove from head of queue without reporting value"},
		"size":    {run: h.doSize, usage: "size [n]", doc: "Compute queue size n times (default: n == 1)"},
		"reverse": {run: h.doReverse, usage: "reverse", doc: "Reverse queue"},
		"sort":    {run: h.doSort, usage: "sort", doc: "Sort queue in ascending order"},
		"show":    {run: h.doShow, usage: "show [json]", doc: "Display queue contents"},
		"check":   {run: h.doCheck, usage: "check", doc: "Verify queue invariants and expected size"},
		"fail":    {run: h.doFail, usage: "fail percent", doc: "Percentage of allocations that fail"},
		"option":  {run: h.doOption, usage: "option [name value]", doc: "Display or set options: length, malloc, verbose"},
		"help":    {run: h.doHelp, usage: "help", doc: "Show documentation"},
		"quit":    {run: h.doQuit, usage: "quit", doc: "Exit program"},
	}
}

func (h *harness) doNew(args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}

	if h.q != nil {
		if err := h.doFree(nil); err != nil {
			return err
		}
	}

	q, err := queue.NewWithAllocator(h.alloc)
	if err != nil {
		return h.refused("new")
	}

	h.q, h.expected = q, 0

	return h.show(false)
}

func (h *harness) doFree(args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}

	if h.q == nil {
		h.printf("WARNING: calling free on absent queue\n")
	}

	h.q.Free()
	h.q, h.expected = nil, 0

	if blocks := h.alloc.Blocks(); blocks > 0 {
		return errors.Errorf("freed queue, but %d blocks are still allocated", blocks)
	}

	return h.show(false)
}

func (h *harness) doInsertHead(args []string) error {
	return h.insert(args, (*queue.Queue).InsertHead)
}

func (h *harness) doInsertTail(args []string) error {
	return h.insert(args, (*queue.Queue).InsertTail)
}

func (h *harness) insert(args []string, insert func(*queue.Queue, string) bool) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}

	count, err := optionalCount(args[1:])
	if err != nil {
		return err
	}

	if h.q == nil {
		h.printf("WARNING: calling insert on absent queue\n")

		if insert(h.q, args[0]) {
			return errors.New("insert on absent queue succeeded")
		}

		return nil
	}

	for i := 0; i < count; i++ {
		if !insert(h.q, args[0]) {
			if err = h.refused("insert"); err != nil {
				return err
			}

			continue
		}

		h.expected++
	}

	return h.verify()
}

func (h *harness) doRemoveHead(args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}

	buf := make([]byte, h.cfg.BufferLength)

	removed, err := h.remove(buf)
	if err != nil || !removed {
		return err
	}

	value := queue.BufferString(buf)
	h.printf("Removed %s from queue\n", utils.Escape(value))

	if len(args) == 1 {
		want := args[0]
		if limit := max(0, h.cfg.BufferLength-1); len(want) > limit {
			want = want[:limit]
		}

		if value != want {
			return errors.Errorf("removed value %s, expected %s", utils.Escape(value), utils.Escape(want))
		}
	}

	return h.verify()
}

func (h *harness) doRemoveHeadQuiet(args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}

	removed, err := h.remove(nil)
	if err != nil || !removed {
		return err
	}

	h.printf("Removed element from queue\n")

	return h.verify()
}

func (h *harness) remove(buf []byte) (bool, error) {
	if h.q == nil {
		h.printf("WARNING: calling remove head on absent queue\n")
	}

	if !h.q.RemoveHead(buf) {
		if h.expected > 0 {
			return false, errors.New("removal from non-empty queue failed")
		}

		h.printf("WARNING: removal from empty queue\n")

		return false, nil
	}

	if h.expected == 0 {
		return false, errors.New("removal from empty queue succeeded")
	}

	h.expected--

	return true, nil
}

func (h *harness) doSize(args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}

	count, err := optionalCount(args)
	if err != nil {
		return err
	}

	size := 0
	for i := 0; i < count; i++ {
		size = h.q.Size()
	}

	if size != h.expected {
		return errors.Errorf("computed queue size as %d, but correct value is %d", size, h.expected)
	}

	h.printf("Queue size = %d\n", size)

	return nil
}

func (h *harness) doReverse(args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}

	h.q.Reverse()

	return h.verify()
}

func (h *harness) doSort(args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}

	h.q.Sort()

	if values := h.q.Values(); !sort.StringsAreSorted(values) {
		return errors.Errorf("queue is not sorted: %v", values)
	}

	return h.verify()
}

func (h *harness) doShow(args []string) error {
	switch {
	case len(args) == 0:
		return h.show(false)
	case len(args) == 1 && args[0] == "json":
		return h.show(true)
	default:
		return ErrUsage
	}
}

func (h *harness) show(asJSON bool) error {
	if h.q == nil {
		h.printf("q = NULL\n")

		return nil
	}

	values := h.q.Values()

	if asJSON {
		data, err := jsoniter.Marshal(snapshot{Size: h.q.Size(), Values: values})
		if err != nil {
			return errors.Wrap(err, "marshal queue")
		}

		h.printf("%s\n", data)
	} else {
		escaped := make([]string, len(values))
		for i, v := range values {
			escaped[i] = utils.Escape(v)
		}

		h.printf("q = [%s]\n", strings.Join(escaped, " "))
	}

	return h.q.Check()
}

func (h *harness) doCheck(args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}

	if err := h.q.Check(); err != nil {
		return err
	}

	if size := h.q.Size(); size != h.expected {
		return errors.Errorf("queue size %d, expected %d", size, h.expected)
	}

	h.printf("Queue is consistent\n")

	return nil
}

func (h *harness) doFail(args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}

	return h.setFailPercent(args[0])
}

func (h *harness) setFailPercent(value string) error {
	percent, err := strconv.Atoi(value)
	if err != nil || percent < 0 || percent > 100 {
		return errors.Wrapf(ErrUsage, "invalid percentage %q", value)
	}

	h.alloc.SetFailPercent(percent)

	return nil
}

func (h *harness) doOption(args []string) error {
	switch len(args) {
	case 0:
		h.printf("length\t%d\tMaximum length of displayed string\n", h.cfg.BufferLength)
		h.printf("malloc\t%d\tAllocation failure percentage\n", h.alloc.FailPercent())
		h.printf("verbose\t%t\tShow queue after every change\n", h.cfg.Verbose)

		return nil
	case 2:
	default:
		return ErrUsage
	}

	name, value := args[0], args[1]

	switch name {
	case "length":
		length, err := strconv.Atoi(value)
		if err != nil || length < 0 {
			return errors.Wrapf(ErrUsage, "invalid length %q", value)
		}

		h.cfg.BufferLength = length
	case "malloc":
		return h.setFailPercent(value)
	case "verbose":
		verbose, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrapf(ErrUsage, "invalid verbose %q", value)
		}

		h.cfg.Verbose = verbose
	default:
		return errors.Wrapf(ErrUsage, "unknown option %q", name)
	}

	return nil
}

func (h *harness) doHelp(args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}

	names := make([]string, 0, len(h.commands))
	for name := range h.commands {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		cmd := h.commands[name]
		h.printf("\t%-20s| %s\n", cmd.usage, cmd.doc)
	}

	return nil
}

func (h *harness) doQuit(args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}

	return errQuit
}

func optionalCount(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	count, err := strconv.Atoi(args[0])
	if err != nil || count < 1 {
		return 0, errors.Wrapf(ErrUsage, "invalid count %q", args[0])
	}

	return count, nil
}
