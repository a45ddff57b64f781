package types_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	types "github.com/okian/journal/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseDate(t *testing.T) {
	Convey("Given raw date inputs", t, func() {
		Convey("When the input is already canonical", func() {
			d, err := types.ParseDate("2024-01-05")

			Convey("Then it should be kept as is", func() {
				So(err, ShouldBeNil)
				So(d, ShouldEqual, types.Date("2024-01-05"))
				So(d.String(), ShouldEqual, "2024-01-05")
			})
		})

		Convey("When the input is a timestamp or another layout", func() {
			inputs := []string{
				"2024-01-05T00:00:00Z",
				"2024-01-05T10:30:00.123+03:00",
				"2024-01-05T23:59:59",
				"2024-01-05 08:00:00",
				"2024/01/05",
				"05.01.2024",
				"  2024-01-05  ",
			}

			Convey("Then every variant should normalize to the same date", func() {
				for _, in := range inputs {
					d, err := types.ParseDate(in)
					So(err, ShouldBeNil)
					So(d, ShouldEqual, types.Date("2024-01-05"))
				}
			})
		})

		Convey("When the input is empty", func() {
			_, err := types.ParseDate("   ")

			Convey("Then it should fail with ErrEmptyDate", func() {
				So(errors.Is(err, types.ErrEmptyDate), ShouldBeTrue)
			})
		})

		Convey("When the input is not a date", func() {
			_, err := types.ParseDate("2024-13-45")

			Convey("Then it should fail with ErrInvalidDate", func() {
				So(errors.Is(err, types.ErrInvalidDate), ShouldBeTrue)
			})
		})

		Convey("When MustParseDate gets garbage", func() {
			Convey("Then it should panic", func() {
				So(func() { types.MustParseDate("soon") }, ShouldPanic)
			})
		})
	})
}

func TestDateConversions(t *testing.T) {
	Convey("Given a canonical date", t, func() {
		d := types.MustParseDate("2024-02-29")

		Convey("Then Time should return midnight UTC", func() {
			So(d.Time(), ShouldEqual, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))
		})

		Convey("Then DateOf should round trip", func() {
			So(types.DateOf(d.Time()), ShouldEqual, d)
		})

		Convey("Then JSON decoding should canonicalize timestamps", func() {
			var got struct {
				Date types.Date `json:"date"`
			}
			err := json.Unmarshal([]byte(`{"date":"2024-02-29T00:00:00.000Z"}`), &got)
			So(err, ShouldBeNil)
			So(got.Date, ShouldEqual, d)
		})

		Convey("Then JSON decoding should reject non-strings", func() {
			var got types.Date
			So(json.Unmarshal([]byte(`20240229`), &got), ShouldNotBeNil)
		})
	})
}

func TestStanding(t *testing.T) {
	Convey("Given a Standing", t, func() {
		s := types.Standing{Rank: 1, ParticipantID: 7, Name: "Ann", Team: "blue", Total: 9.5}

		Convey("Then it should encode with camelCase keys", func() {
			b, err := json.Marshal(s)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"rank":1,"participantId":7,"name":"Ann","team":"blue","total":9.5}`)
		})
	})
}
