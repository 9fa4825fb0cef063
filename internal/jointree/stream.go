package jointree

import (
	"bufio"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/xDarkicex/wmc/internal/cnf"
	"github.com/xDarkicex/wmc/internal/wmcerr"
)

// Ingest drives the Ingestor over r, arming a Timer for plannerWait and
// killing the recorded planner PID once a usable tree exists. It returns
// the newest committed tree, or a NoJoinTree error if none completed
// before EOF.
func Ingest(r io.Reader, inst *cnf.Instance, plannerWait float64, log *logrus.Logger) (*Tree, error) {
	ing := NewIngestor()
	timer := NewTimer(plannerWait, log)
	defer timer.Disarm()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := Lex(scanner.Text())
		reading := ing.st == stateReadingTree
		tree, err := ing.ProcessLine(line)
		if err != nil {
			return nil, wmcerr.Wrap(wmcerr.InputError, "jointree.Ingest", "malformed join-tree stream", err)
		}
		if tree != nil {
			if tree.Width < 0 {
				tree.Width = ComputeWidth(tree, inst)
			}
			timer.OnTreeComplete(ing.PlannerPID())
		} else if reading && line.Kind == LineSeparator && log != nil {
			log.Warn("incomplete join tree discarded: nonterminal count does not match N-C")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, wmcerr.Wrap(wmcerr.InputError, "jointree.Ingest", "error reading join-tree stream", err)
	}

	reading := ing.st == stateReadingTree
	if tree := ing.Finalize(); tree != nil {
		if tree.Width < 0 {
			tree.Width = ComputeWidth(tree, inst)
		}
	} else if reading && log != nil {
		log.Warn("incomplete join tree discarded at EOF: nonterminal count does not match N-C")
	}
	timer.OnEOF()

	final := ing.NewestComplete()
	if final == nil {
		return nil, wmcerr.New(wmcerr.NoJoinTree, "jointree.Ingest", "no join tree")
	}
	return final, nil
}

// killPlanner kills the recorded planner PID with os.Process.Kill (SIGKILL
// on Unix). Failure is a warning, not a hard error.
func killPlanner(pid int, log *logrus.Logger) {
	if pid <= 0 {
		return
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		log.WithField("pid", pid).Warn("failed to locate planner process for kill")
		return
	}
	if err := proc.Kill(); err != nil {
		log.WithField("pid", pid).WithError(err).Warn("failed to kill planner process")
	}
}
