// Command oplogdemo is an interactive REPL exercising an OperationLog
// end to end: append, undo, redo, merge, reduce, save and load, driven
// against the stringsnap example Snapshot/Operation pair. It generalizes
// user/input.go's single-line "replica operation" REPL from the teacher
// repo into a multi-log exerciser, since a single process here drives
// several independent logs and merges them explicitly rather than
// broadcasting over channels.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/schwmi/oplog/clock"
	"github.com/schwmi/oplog/oplog"
	"github.com/schwmi/oplog/stringsnap"
)

type replicatedLog = oplog.Log[string, string, stringsnap.Snapshot, stringsnap.Op]

func main() {
	logs := map[string]*replicatedLog{}
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("oplogdemo - commands: create, append, removelast, undo, redo, merge, reduce, save, load, show, stats")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		fields := strings.Fields(line)
		if err := dispatch(logs, fields); err != nil {
			fmt.Println("error:", err)
		}
	}
}

func dispatch(logs map[string]*replicatedLog, fields []string) error {
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "create":
		if len(fields) != 3 {
			return fmt.Errorf("usage: create <name> <actor>")
		}
		logs[fields[1]] = oplog.New[string, string, stringsnap.Snapshot, stringsnap.Op](
			fields[1], fields[2], oplog.WithTimestampStrategy[string, string, stringsnap.Snapshot, stringsnap.Op](clock.MonotonicIncrease))
		return nil

	case "append":
		if len(fields) != 3 || len(fields[2]) != 1 {
			return fmt.Errorf("usage: append <name> <single-char>")
		}
		l, err := lookup(logs, fields[1])
		if err != nil {
			return err
		}
		l.Append(stringsnap.AppendCharOp(rune(fields[2][0])))
		return nil

	case "removelast":
		if len(fields) != 2 {
			return fmt.Errorf("usage: removelast <name>")
		}
		l, err := lookup(logs, fields[1])
		if err != nil {
			return err
		}
		l.Append(stringsnap.RemoveLastOp())
		return nil

	case "undo":
		if len(fields) != 2 {
			return fmt.Errorf("usage: undo <name>")
		}
		l, err := lookup(logs, fields[1])
		if err != nil {
			return err
		}
		l.Undo()
		return nil

	case "redo":
		if len(fields) != 2 {
			return fmt.Errorf("usage: redo <name>")
		}
		l, err := lookup(logs, fields[1])
		if err != nil {
			return err
		}
		l.Redo()
		return nil

	case "merge":
		if len(fields) != 3 {
			return fmt.Errorf("usage: merge <into> <from>")
		}
		into, err := lookup(logs, fields[1])
		if err != nil {
			return err
		}
		from, err := lookup(logs, fields[2])
		if err != nil {
			return err
		}
		return into.Merge(from)

	case "reduce":
		if len(fields) != 2 {
			return fmt.Errorf("usage: reduce <name> (reduces to the current tip)")
		}
		l, err := lookup(logs, fields[1])
		if err != nil {
			return err
		}
		ops := l.Operations()
		if len(ops) == 0 {
			return fmt.Errorf("nothing to reduce")
		}
		return l.Reduce(oplog.UntilID[string, stringsnap.Op](ops[len(ops)-1].ID()))

	case "save":
		if len(fields) != 3 {
			return fmt.Errorf("usage: save <name> <file>")
		}
		l, err := lookup(logs, fields[1])
		if err != nil {
			return err
		}
		data, err := l.Serialize()
		if err != nil {
			return err
		}
		return os.WriteFile(fields[2], data, 0o644)

	case "load":
		if len(fields) != 4 {
			return fmt.Errorf("usage: load <name> <actor> <file>")
		}
		data, err := os.ReadFile(fields[3])
		if err != nil {
			return err
		}
		l, err := oplog.FromBytes[string, string](fields[2], data, stringsnap.Decoder)
		if err != nil {
			return err
		}
		logs[fields[1]] = l
		return nil

	case "show":
		if len(fields) != 2 {
			return fmt.Errorf("usage: show <name>")
		}
		l, err := lookup(logs, fields[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s = %q\n", fields[1], l.Snapshot().String())
		return nil

	case "stats":
		if len(fields) != 2 {
			return fmt.Errorf("usage: stats <name>")
		}
		l, err := lookup(logs, fields[1])
		if err != nil {
			return err
		}
		full, partial, skipped := l.Summary().ApplyOutcomeCounts()
		fmt.Printf("operations=%d full=%d partial=%d skipped=%d canUndo=%v canRedo=%v\n",
			len(l.Operations()), full, partial, skipped, l.CanUndo(), l.CanRedo())
		return nil

	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

func lookup(logs map[string]*replicatedLog, name string) (*replicatedLog, error) {
	l, ok := logs[name]
	if !ok {
		return nil, fmt.Errorf("no such log %q", name)
	}
	return l, nil
}
