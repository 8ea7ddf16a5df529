package terminal

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fatih/color"
	service "github.com/okian/perfscore/internal/app"
	"github.com/okian/perfscore/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleRecord() model.Record {
	return model.Record{TasksCompleted: 10, TaskCompletionRate: 80, AttendanceRate: 95, TrainingHours: 5}
}

func TestWriteTable(t *testing.T) {
	color.NoColor = true

	Convey("Given a completed outcome", t, func() {
		out := service.Outcome{
			State:   service.Completed,
			Record:  sampleRecord(),
			Score:   87.46,
			Message: "Predicted Performance Score: 87.46%",
		}

		Convey("When written as a table", func() {
			var buf bytes.Buffer
			err := Write(&buf, out, TableOut)

			Convey("Then every field and the message are printed", func() {
				So(err, ShouldBeNil)
				text := buf.String()
				for _, f := range model.Fields {
					So(text, ShouldContainSubstring, f.Column())
				}
				So(text, ShouldContainSubstring, "Attendance Rate (%)")
				So(text, ShouldContainSubstring, "95")
				So(text, ShouldContainSubstring, "Predicted Performance Score: 87.46%")
			})
		})

		Convey("When written as JSON", func() {
			var buf bytes.Buffer
			err := Write(&buf, out, JSONOut)

			Convey("Then the state is encoded by name", func() {
				So(err, ShouldBeNil)
				var doc map[string]any
				So(json.Unmarshal(buf.Bytes(), &doc), ShouldBeNil)
				So(doc["status"], ShouldEqual, "completed")
				So(doc["score"], ShouldEqual, 87.46)
			})
		})
	})

	Convey("Given a rejected outcome", t, func() {
		out := service.Outcome{
			State:   service.Rejected,
			Field:   model.TrainingHours,
			Message: "Please enter a valid value for Training Hours.",
		}

		Convey("Then the message is printed and the exit code is 2", func() {
			var buf bytes.Buffer
			So(WriteTable(&buf, out), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "Please enter a valid value for Training Hours.")
			So(ExitCode(out), ShouldEqual, 2)
		})
	})

	Convey("Given an unknown output format", t, func() {
		var buf bytes.Buffer
		err := Write(&buf, service.Outcome{State: service.Completed}, "jsno")

		Convey("Then nothing is written and the format is refused", func() {
			So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)
			So(buf.Len(), ShouldEqual, 0)
			So(CheckFormat(TableOut), ShouldBeNil)
			So(CheckFormat(JSONOut), ShouldBeNil)
		})
	})

	Convey("Given exit codes", t, func() {
		So(ExitCode(service.Outcome{State: service.Completed}), ShouldEqual, 0)
		So(ExitCode(service.Outcome{State: service.Failed}), ShouldEqual, 1)
	})
}
