package main

import (
	"testing"
	"time"

	"github.com/samuelfneumann/gridtransfer/gridmap"
)

func TestParseCoord(t *testing.T) {
	c, err := parseCoord("2,3")
	if err != nil {
		t.Fatal(err)
	}
	if *c != (gridmap.Coord{Row: 2, Col: 3}) {
		t.Errorf("parseCoord: want (2, 3), have %v", *c)
	}

	if c, err := parseCoord(""); c != nil || err != nil {
		t.Errorf("parseCoord: empty string should give nil, have %v, %v", c,
			err)
	}

	if _, err := parseCoord("two,three"); err == nil {
		t.Error("parseCoord: expected error for non-integer cell")
	}
}

func TestResolveSeed(t *testing.T) {
	now := func() time.Time { return time.Unix(0, 12345) }

	if s := resolveSeed(true, 7, now); s != 7 {
		t.Errorf("resolveSeed: want flag seed 7, have %d", s)
	}
	if s := resolveSeed(false, 0, now); s != 12345 {
		t.Errorf("resolveSeed: want clock seed 12345, have %d", s)
	}
}

func TestBatchFlags(t *testing.T) {
	transferCmd, batchCmd := TransferCommand(), BatchCommand()

	if err := transferCmd.ParseFlags([]string{"--batch", "3"}); err != nil {
		t.Fatal(err)
	}
	if id, _ := transferCmd.Flags().GetInt("batch"); id != 3 {
		t.Errorf("transfer: want batch 3, have %d", id)
	}
	if id, _ := batchCmd.Flags().GetInt("batch"); id != 0 {
		t.Errorf("batch: flag changed by another command, have %d", id)
	}
}
