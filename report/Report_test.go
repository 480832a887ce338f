package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samuelfneumann/gridtransfer/report"
	"github.com/samuelfneumann/gridtransfer/transfer"
	. "github.com/smartystreets/goconvey/convey"
)

var ratios = []transfer.Ratio{
	{Target: "maps/grid0.txt", WithTransfer: 0.8, WithoutTransfer: 0.4,
		Value: 2.0},
	{Target: "maps/grid1.txt", WithTransfer: 0.2, WithoutTransfer: 0.4,
		Value: 0.5},
	{Target: "maps/grid2.txt", WithTransfer: 0.3, WithoutTransfer: 0.3,
		Value: 1.0},
}

func TestSummarize(t *testing.T) {
	Convey("Given a batch of ratios", t, func() {
		s := report.Summarize(ratios)

		So(s.Mean, ShouldAlmostEqual, 3.5/3)
		So(s.Better, ShouldEqual, 1)
		So(s.StdErr, ShouldBeGreaterThan, 0)
	})

	Convey("Given no ratios", t, func() {
		s := report.Summarize(nil)
		So(s.Mean, ShouldEqual, 0)
		So(s.StdErr, ShouldEqual, 0)
	})
}

func TestPrint(t *testing.T) {
	Convey("Given uncoloured output", t, func() {
		var buf bytes.Buffer
		So(report.Print(&buf, ratios, false), ShouldBeNil)

		out := buf.String()
		So(out, ShouldContainSubstring, "grid0.txt")
		So(out, ShouldContainSubstring, "2.000")
		So(out, ShouldContainSubstring, "Mean Transfer Ratio:")
		So(out, ShouldContainSubstring, "(1/3 improved)")
		So(strings.Contains(out, "\x1b["), ShouldBeFalse)
	})

	Convey("Given coloured output", t, func() {
		var buf bytes.Buffer
		So(report.Print(&buf, ratios, true), ShouldBeNil)
		So(buf.String(), ShouldContainSubstring, "\x1b[")
	})
}

func TestWrite(t *testing.T) {
	Convey("Given a results directory", t, func() {
		dir := t.TempDir()

		Convey("The JSON summary can be loaded back", func() {
			path := filepath.Join(dir, "ratios.json")
			So(report.WriteJSON(path, ratios), ShouldBeNil)

			s, err := report.LoadJSON(path)
			So(err, ShouldBeNil)
			So(len(s.Ratios), ShouldEqual, len(ratios))
			So(s.Ratios[1].Value, ShouldEqual, 0.5)
		})

		Convey("The HTML report is written", func() {
			path := filepath.Join(dir, "ratios.html")
			So(report.WriteHTML(path, ratios), ShouldBeNil)

			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, "Transfer Ratio")
		})
	})
}
