package uci

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/seekerror/logw"
)

// optionAdvertisements lists the "option name ..." lines sent once, right
// after "id author", per SPEC_FULL.md §6.1's extended setoption table.
func optionAdvertisements() []string {
	return []string{
		"option name Hash type spin default 16 min 0 max 4096",
		"option name Clear Hash type button",
		"option name Keep Hash Tables type check default false",
		"option name Contempt Value type spin default 0 min -300 max 300",
		"option name Contempt End type spin default 40 min 0 max 200",
		"option name OwnBook type check default false",
		"option name Book Moves type spin default 12 min 1 max 12",
		"option name Show Current Move type check default true",
		"option name UCI_LimitStrength type check default false",
		"option name UCI_Elo type spin default 2800 min 1000 max 2900",
		"option name CPU Speed [%] type spin default 100 min 1 max 100",
		"option name CPU Speed [kNPS] type spin default 0 min 0 max 100000",
		"option name Move Overhead [ms] type spin default 30 min 0 max 5000",
		"option name Eval Noise [%] type spin default 0 min 0 max 100",
	}
}

// handleSetOption applies one "setoption name <id> [value <x>]" command,
// read-modify-writing the engine's dynamic Options under its own lock.
func (d *Driver) handleSetOption(ctx context.Context, args []string) {
	name, value, ok := parseSetOption(args)
	if !ok {
		logw.Warningf(ctx, "Malformed setoption: %v", args)
		return
	}

	if name == "Clear Hash" {
		d.e.ClearHash()
		return
	}

	opt := d.e.Options()
	switch name {
	case "Hash":
		if v, err := strconv.Atoi(value); err == nil {
			opt.HashMB = uint(v)
		}
	case "Keep Hash Tables":
		opt.KeepHashTables = value == "true"
	case "Contempt Value":
		if v, err := strconv.Atoi(value); err == nil {
			opt.ContemptValue = v
		}
	case "Contempt End":
		if v, err := strconv.Atoi(value); err == nil {
			opt.ContemptEnd = v
		}
	case "OwnBook":
		opt.OwnBook = value == "true"
	case "Book Moves":
		// Advisory cap only; PickBookMove already caps at 12 candidates.
	case "Show Current Move":
		opt.ShowCurrentMoveEverySecond = value == "true"
	case "UCI_LimitStrength":
		opt.LimitStrength = value == "true"
	case "UCI_Elo":
		if v, err := strconv.Atoi(value); err == nil {
			opt.Elo = uint(v)
		}
	case "CPU Speed [%]":
		if v, err := strconv.Atoi(value); err == nil {
			opt.CPUPercent = uint(v)
		}
	case "CPU Speed [kNPS]":
		if v, err := strconv.Atoi(value); err == nil {
			opt.CPUKNPS = uint(v)
		}
	case "Move Overhead [ms]":
		if v, err := strconv.Atoi(value); err == nil {
			opt.MoveOverhead = time.Duration(v) * time.Millisecond
		}
	case "Eval Noise [%]":
		if v, err := strconv.Atoi(value); err == nil {
			opt.NoiseMillipawns = uint(v * 10) // 1% of a pawn == 10 millipawns
		}
	default:
		logw.Warningf(ctx, "Unknown setoption name %q", name)
		return
	}
	d.e.SetOptions(opt)
}

// parseSetOption splits "name <id...> [value <x...>]" into its id and value
// parts; a button option (e.g. "Clear Hash") has no value.
func parseSetOption(args []string) (name, value string, ok bool) {
	if len(args) == 0 || args[0] != "name" {
		return "", "", false
	}
	args = args[1:]

	var nameParts, valueParts []string
	inValue := false
	for _, a := range args {
		if a == "value" && !inValue {
			inValue = true
			continue
		}
		if inValue {
			valueParts = append(valueParts, a)
		} else {
			nameParts = append(nameParts, a)
		}
	}
	if len(nameParts) == 0 {
		return "", "", false
	}
	return strings.Join(nameParts, " "), strings.Join(valueParts, " "), true
}
