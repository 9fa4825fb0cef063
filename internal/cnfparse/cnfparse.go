// Package cnfparse reads the weighted-CNF input file into a cnf.Instance.
// The wire format is an external contract, not part of the evaluation
// core itself; this reader follows the DIMACS cnf convention used by the
// model-counting tool family the engine was distilled from: a problem
// line, clause lines terminated by 0, and "c p weight" / "c p show"
// comment directives for literal weights and the outer (projection) set.
package cnfparse

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/xDarkicex/wmc/internal/cnf"
	"github.com/xDarkicex/wmc/internal/wmcerr"
)

// Parse reads r and builds a cnf.Instance. weighted/projected/existRandom/
// maximizing/logCounting/multiplePrecision are set on the resulting
// instance from the caller's RunConfig flags; the parser itself only
// derives structure and any weights/outer set the file declares.
func Parse(r io.Reader, weighted, projected, existRandom, maximizing, logCounting, multiplePrecision bool) (*cnf.Instance, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	weights := cnf.NewWeightTable()
	outer := cnf.NewVarSet()
	var declaredV, declaredC int
	var clauses []cnf.Clause

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "c":
			if err := parseDirective(fields, weights, outer); err != nil {
				return nil, wmcerr.Wrap(wmcerr.InputError, "cnfparse.Parse", "malformed weight/show directive", err)
			}
		case "p":
			v, c, err := parseProblemLine(fields)
			if err != nil {
				return nil, wmcerr.Wrap(wmcerr.InputError, "cnfparse.Parse", "malformed problem line", err)
			}
			declaredV, declaredC = v, c
		default:
			clause, err := parseClauseLine(fields, len(clauses))
			if err != nil {
				return nil, wmcerr.Wrap(wmcerr.InputError, "cnfparse.Parse", "malformed clause line", err)
			}
			clauses = append(clauses, clause)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, wmcerr.Wrap(wmcerr.InputError, "cnfparse.Parse", "error reading cnf stream", err)
	}
	if declaredV == 0 {
		return nil, wmcerr.New(wmcerr.InputError, "cnfparse.Parse", "missing problem line")
	}
	if declaredC != len(clauses) {
		return nil, wmcerr.New(wmcerr.InputError, "cnfparse.Parse", "declared clause count does not match clauses read")
	}

	if !projected {
		// Without projected counting there is no inner/outer
		// distinction: any "c p show" set is replaced, every variable
		// is projected only at the join tree's root, so every variable
		// is outer.
		outer = cnf.NewVarSet()
		for v := cnf.Variable(1); int(v) <= declaredV; v++ {
			outer.Add(v)
		}
	}

	inst := cnf.NewInstance(declaredV, clauses, weights, outer)
	inst.Weighted = weighted
	inst.Projected = projected
	inst.ExistRandom = existRandom
	inst.Maximizing = maximizing
	inst.LogCounting = logCounting
	inst.MultiplePrecision = multiplePrecision
	return inst, nil
}

// parseDirective handles "c p weight <signedLit> <value> 0" (per-literal
// weight) and "c p show <v1> <v2> ... 0" (outer/projection set). Any other
// comment line is ignored.
func parseDirective(fields []string, weights *cnf.WeightTable, outer cnf.VarSet) error {
	if len(fields) < 3 || fields[1] != "p" {
		return nil
	}
	switch fields[2] {
	case "weight":
		if len(fields) < 6 {
			return wmcerr.New(wmcerr.InputError, "cnfparse.parseDirective", "weight directive needs literal and value")
		}
		lit, err := strconv.Atoi(fields[3])
		if err != nil {
			return err
		}
		val, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return err
		}
		weights.Set(signedToLiteral(lit), val)
	case "show":
		for _, f := range fields[3:] {
			n, err := strconv.Atoi(f)
			if err != nil {
				return err
			}
			if n == 0 {
				break
			}
			outer.Add(cnf.Variable(n))
		}
	}
	return nil
}

func parseProblemLine(fields []string) (v, c int, err error) {
	if len(fields) < 4 {
		return 0, 0, wmcerr.New(wmcerr.InputError, "cnfparse.parseProblemLine", "expected: p cnf V C")
	}
	v, err = strconv.Atoi(fields[2])
	if err != nil {
		return 0, 0, err
	}
	c, err = strconv.Atoi(fields[3])
	if err != nil {
		return 0, 0, err
	}
	return v, c, nil
}

func parseClauseLine(fields []string, index int) (cnf.Clause, error) {
	var literals []cnf.Literal
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return cnf.Clause{}, err
		}
		if n == 0 {
			break
		}
		literals = append(literals, signedToLiteral(n))
	}
	return cnf.Clause{Literals: literals, Index: index}, nil
}

func signedToLiteral(n int) cnf.Literal {
	if n < 0 {
		return cnf.Lit(cnf.Variable(-n), true)
	}
	return cnf.Lit(cnf.Variable(n), false)
}
