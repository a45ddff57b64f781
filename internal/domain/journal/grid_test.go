package journal_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/okian/journal/internal/domain/journal"
	"github.com/okian/journal/internal/domain/model"
	"github.com/okian/journal/internal/domain/scoring"
	"github.com/okian/journal/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	ann = model.Participant{ID: 1, Name: "Ann", Team: model.TeamBlue}
	bob = model.Participant{ID: 2, Name: "Bob", Team: model.TeamYellow}
	cat = model.Participant{ID: 3, Name: "Cat", Team: model.TeamBlue}

	jan5 = types.Date("2024-01-05")
	jan6 = types.Date("2024-01-06")
)

func loadedGrid(ctx context.Context, scores *fakeScores, opts ...journal.Option) *journal.Grid {
	g := journal.New(newDirectory(ann, bob, cat), scores, opts...)
	So(g.Load(ctx), ShouldBeNil)
	return g
}

func TestAddColumn(t *testing.T) {
	Convey("Given an empty grid", t, func() {
		scores := &fakeScores{}
		g := journal.New(newDirectory(), scores)

		Convey("When the same calendar date is added twice in different forms", func() {
			d1, err1 := g.AddColumn("2024-01-05")
			d2, err2 := g.AddColumn("2024-01-05T00:00:00Z")

			Convey("Then there should be one canonical column", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(d1, ShouldEqual, jan5)
				So(d2, ShouldEqual, jan5)
				So(g.Columns(), ShouldResemble, []types.Date{jan5})
			})

			Convey("And the score service should not be contacted", func() {
				So(scores.upsertCount(), ShouldEqual, 0)
				So(scores.deletes, ShouldBeEmpty)
			})
		})

		Convey("When columns are added out of order", func() {
			_, _ = g.AddColumn("2024-01-06")
			_, _ = g.AddColumn("2024-01-05")

			Convey("Then they should keep insertion order", func() {
				So(g.Columns(), ShouldResemble, []types.Date{jan6, jan5})
			})
		})

		Convey("When the date is empty or malformed", func() {
			_, emptyErr := g.AddColumn("")
			_, badErr := g.AddColumn("next tuesday")

			Convey("Then it should fail validation and report it", func() {
				So(errors.Is(emptyErr, journal.ErrValidation), ShouldBeTrue)
				So(errors.Is(badErr, journal.ErrValidation), ShouldBeTrue)
				So(errors.Is(badErr, types.ErrInvalidDate), ShouldBeTrue)
				So(g.Columns(), ShouldBeEmpty)
				So(g.Err(), ShouldEqual, "Invalid date.")
			})
		})
	})
}

func TestTotalScore(t *testing.T) {
	Convey("Given a loaded grid", t, func() {
		ctx := context.Background()
		g := loadedGrid(ctx, &fakeScores{})
		_, _ = g.AddColumn("2024-01-05")
		_, _ = g.AddColumn("2024-01-06")

		Convey("Then a participant without cells should total 0", func() {
			So(g.TotalScore(ann.ID), ShouldEqual, 0)
			So(g.TotalScore(999), ShouldEqual, 0)
		})

		Convey("When one cell is N and another is a true 0", func() {
			So(g.SetCellValue(ann.ID, "2024-01-05", "N"), ShouldBeNil)
			So(g.SetCellValue(ann.ID, "2024-01-06", "0"), ShouldBeNil)

			Convey("Then both contribute 0 but stay distinguishable", func() {
				na, _ := g.Cell(ann.ID, jan5)
				zero, _ := g.Cell(ann.ID, jan6)
				So(g.TotalScore(ann.ID), ShouldEqual, 0)
				So(na.Value, ShouldEqual, "N")
				So(zero.Value, ShouldEqual, "0")
				So(na, ShouldNotResemble, zero)
			})
		})

		Convey("When cells hold numbers and garbage", func() {
			So(g.SetCellValue(ann.ID, "2024-01-05", "4.5"), ShouldBeNil)
			So(g.SetCellValue(ann.ID, "2024-01-06", "abc"), ShouldBeNil)
			So(g.SetCellValue(bob.ID, "2024-01-06", "6"), ShouldBeNil)

			Convey("Then unsaved values count and unparseable ones contribute 0", func() {
				So(g.TotalScore(ann.ID), ShouldEqual, 4.5)
				So(g.TotalScore(bob.ID), ShouldEqual, 6)
			})
		})
	})
}

func TestSetCellValue(t *testing.T) {
	Convey("Given a loaded grid with one column", t, func() {
		ctx := context.Background()
		g := loadedGrid(ctx, &fakeScores{})
		_, _ = g.AddColumn("2024-01-05")

		Convey("When editing a cell", func() {
			err := g.SetCellValue(ann.ID, "2024-01-05", "3")
			cell, ok := g.Cell(ann.ID, jan5)

			Convey("Then it should be created unsaved", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(cell, ShouldResemble, journal.Cell{Value: "3", Saved: false})
			})
		})

		Convey("When the column is unknown", func() {
			err := g.SetCellValue(ann.ID, "2024-02-01", "3")

			Convey("Then it should be rejected and reported", func() {
				So(errors.Is(err, journal.ErrUnknownColumn), ShouldBeTrue)
				So(g.Err(), ShouldEqual, "Unknown date column.")
			})
		})

		Convey("When the participant is unknown", func() {
			err := g.SetCellValue(42, "2024-01-05", "3")

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, journal.ErrUnknownParticipant), ShouldBeTrue)
				So(g.Err(), ShouldEqual, "Unknown participant.")
				_, ok := g.Cell(42, jan5)
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestSaveCell(t *testing.T) {
	Convey("Given a loaded grid with one column", t, func() {
		ctx := context.Background()
		scores := &fakeScores{}
		g := loadedGrid(ctx, scores)
		_, _ = g.AddColumn("2024-01-05")

		Convey("When a valid cell is saved", func() {
			So(g.SetCellValue(ann.ID, "2024-01-05", "4.5"), ShouldBeNil)
			err := g.SaveCell(ctx, ann.ID, "2024-01-05")

			Convey("Then the record is sent and the cell is locked", func() {
				So(err, ShouldBeNil)
				So(scores.upserts, ShouldResemble, []model.ScoreRecord{
					{ParticipantID: ann.ID, Date: jan5, Score: scoring.Number(4.5)},
				})
				cell, _ := g.Cell(ann.ID, jan5)
				So(cell.Saved, ShouldBeTrue)
				So(g.Err(), ShouldBeEmpty)
			})

			Convey("And later edits are rejected without changing the value", func() {
				So(errors.Is(g.SetCellValue(ann.ID, "2024-01-05", "1"), journal.ErrCellLocked), ShouldBeTrue)
				cell, _ := g.Cell(ann.ID, jan5)
				So(cell.Value, ShouldEqual, "4.5")
				So(g.Err(), ShouldEqual, "This score is saved and can no longer be changed.")
			})

			Convey("And saving again is rejected without a remote call", func() {
				So(errors.Is(g.SaveCell(ctx, ann.ID, "2024-01-05"), journal.ErrCellLocked), ShouldBeTrue)
				So(scores.upsertCount(), ShouldEqual, 1)
			})
		})

		Convey("When the not-applicable marker is saved", func() {
			So(g.SetCellValue(ann.ID, "2024-01-05", "N"), ShouldBeNil)
			err := g.SaveCell(ctx, ann.ID, "2024-01-05")

			Convey("Then it is sent as N", func() {
				So(err, ShouldBeNil)
				So(scores.upserts[0].Score.IsNA(), ShouldBeTrue)
			})
		})

		Convey("When the cell value is empty", func() {
			So(g.SetCellValue(ann.ID, "2024-01-05", ""), ShouldBeNil)
			err := g.SaveCell(ctx, ann.ID, "2024-01-05")

			Convey("Then it fails validation and issues no remote call", func() {
				So(errors.Is(err, journal.ErrValidation), ShouldBeTrue)
				So(errors.Is(err, scoring.ErrEmptyValue), ShouldBeTrue)
				So(scores.upsertCount(), ShouldEqual, 0)
				So(g.Err(), ShouldEqual, "Score must not be empty.")
			})
		})

		Convey("When the cell was never edited", func() {
			err := g.SaveCell(ctx, bob.ID, "2024-01-05")

			Convey("Then it is treated as empty", func() {
				So(errors.Is(err, journal.ErrValidation), ShouldBeTrue)
				So(scores.upsertCount(), ShouldEqual, 0)
			})
		})

		Convey("When the cell value is not numeric", func() {
			So(g.SetCellValue(ann.ID, "2024-01-05", "abc"), ShouldBeNil)
			err := g.SaveCell(ctx, ann.ID, "2024-01-05")

			Convey("Then it fails validation and issues no remote call", func() {
				So(errors.Is(err, journal.ErrValidation), ShouldBeTrue)
				So(scores.upsertCount(), ShouldEqual, 0)
				So(g.Err(), ShouldEqual, "Invalid score value.")
				cell, _ := g.Cell(ann.ID, jan5)
				So(cell.Saved, ShouldBeFalse)
			})
		})

		Convey("When values outside the score domain are saved", func() {
			_, _ = g.AddColumn("2024-01-06")
			_, _ = g.AddColumn("2024-01-07")
			So(g.SetCellValue(ann.ID, "2024-01-05", "1e308"), ShouldBeNil)
			So(g.SetCellValue(ann.ID, "2024-01-06", "1e308"), ShouldBeNil)
			So(g.SetCellValue(ann.ID, "2024-01-07", "-7"), ShouldBeNil)

			var errs []error
			for _, d := range []string{"2024-01-05", "2024-01-06", "2024-01-07"} {
				errs = append(errs, g.SaveCell(ctx, ann.ID, d))
			}

			Convey("Then each fails validation and nothing is sent", func() {
				for _, err := range errs {
					So(errors.Is(err, journal.ErrValidation), ShouldBeTrue)
					So(errors.Is(err, scoring.ErrOutOfRange), ShouldBeTrue)
				}
				So(scores.upsertCount(), ShouldEqual, 0)
				So(g.Err(), ShouldEqual, "Score must be N or between 0 and 6 in half points.")
				cell, _ := g.Cell(ann.ID, jan6)
				So(cell.Saved, ShouldBeFalse)
			})

			Convey("Then the total stays finite and the snapshot encodes", func() {
				So(g.TotalScore(ann.ID), ShouldEqual, 0)
				_, err := json.Marshal(g.Snapshot())
				So(err, ShouldBeNil)
			})
		})

		Convey("When the remote save fails", func() {
			scores.set(func(s *fakeScores) { s.upsertErr = errors.New("503") })
			So(g.SetCellValue(ann.ID, "2024-01-05", "3"), ShouldBeNil)
			err := g.SaveCell(ctx, ann.ID, "2024-01-05")

			Convey("Then the cell keeps its value and stays editable", func() {
				So(errors.Is(err, journal.ErrRemote), ShouldBeTrue)
				var remote *journal.RemoteError
				So(errors.As(err, &remote), ShouldBeTrue)
				cell, _ := g.Cell(ann.ID, jan5)
				So(cell, ShouldResemble, journal.Cell{Value: "3", Saved: false})
				So(g.Err(), ShouldEqual, "Failed to save the score. Please try again.")
			})

			Convey("And a retry is permitted and clears the error", func() {
				scores.set(func(s *fakeScores) { s.upsertErr = nil })
				So(g.SaveCell(ctx, ann.ID, "2024-01-05"), ShouldBeNil)
				cell, _ := g.Cell(ann.ID, jan5)
				So(cell.Saved, ShouldBeTrue)
				So(g.Err(), ShouldBeEmpty)
				So(scores.upsertCount(), ShouldEqual, 2)
			})
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a score service with two records for participant 1", t, func() {
		ctx := context.Background()
		scores := &fakeScores{records: []model.ScoreRecord{
			{ParticipantID: 1, Date: jan5, Score: scoring.Number(3)},
			{ParticipantID: 1, Date: jan6, Score: scoring.NA()},
		}}

		Convey("When the grid loads", func() {
			g := loadedGrid(ctx, scores)

			Convey("Then columns and saved cells follow the records", func() {
				So(g.Columns(), ShouldResemble, []types.Date{jan5, jan6})
				c5, _ := g.Cell(1, jan5)
				c6, _ := g.Cell(1, jan6)
				So(c5, ShouldResemble, journal.Cell{Value: "3", Saved: true})
				So(c6, ShouldResemble, journal.Cell{Value: "N", Saved: true})
				So(g.TotalScore(1), ShouldEqual, 3)
			})

			Convey("Then participants are blue first, then yellow", func() {
				So(g.Participants(), ShouldResemble, []model.Participant{ann, cat, bob})
			})

			Convey("And removing 2024-01-05 drops the column and its cells", func() {
				g2 := journal.New(newDirectory(ann, bob, cat), scores, journal.WithConfirmer(journal.AlwaysConfirm))
				So(g2.Load(ctx), ShouldBeNil)
				err := g2.RemoveColumn(ctx, "2024-01-05")

				So(err, ShouldBeNil)
				So(scores.deletes, ShouldResemble, []types.Date{jan5})
				So(g2.Columns(), ShouldResemble, []types.Date{jan6})
				_, ok := g2.Cell(1, jan5)
				So(ok, ShouldBeFalse)
				So(g2.TotalScore(1), ShouldEqual, 0)
				c6, _ := g2.Cell(1, jan6)
				So(c6.Value, ShouldEqual, "N")
			})
		})

		Convey("When the participant fetch fails", func() {
			dir := newDirectory(ann, bob)
			dir.fail(errors.New("connection refused"))
			g := journal.New(dir, scores)
			err := g.Load(ctx)

			Convey("Then the scores are still applied and the failure reported", func() {
				So(errors.Is(err, journal.ErrRemote), ShouldBeTrue)
				So(g.Err(), ShouldEqual, "Failed to load participants. Please try again.")
				So(g.Columns(), ShouldResemble, []types.Date{jan5, jan6})
				So(g.TotalScore(1), ShouldEqual, 3)
				So(g.Snapshot().Rows, ShouldBeEmpty)
			})

			Convey("And the rows appear once the participants catch up", func() {
				dir.fail(nil)
				So(g.Load(ctx), ShouldBeNil)
				rows := g.Snapshot().Rows
				So(rows, ShouldHaveLength, 2)
				So(rows[0].Participant, ShouldResemble, ann)
				So(rows[0].Total, ShouldEqual, 3)
				So(g.Err(), ShouldBeEmpty)
			})
		})

		Convey("When the score fetch fails", func() {
			scores.set(func(s *fakeScores) { s.listErr = errors.New("timeout") })
			g := journal.New(newDirectory(ann, bob), scores)
			err := g.Load(ctx)

			Convey("Then participants are still applied and the failure reported", func() {
				So(errors.Is(err, journal.ErrRemote), ShouldBeTrue)
				So(g.Err(), ShouldEqual, "Failed to load scores. Please try again.")
				So(g.Participants(), ShouldHaveLength, 2)
				So(g.Columns(), ShouldBeEmpty)
			})
		})

		Convey("When the grid reloads after local work", func() {
			g := loadedGrid(ctx, scores)
			_, _ = g.AddColumn("2024-01-07")
			So(g.SetCellValue(bob.ID, "2024-01-07", "2"), ShouldBeNil)
			scores.set(func(s *fakeScores) { s.records = s.records[1:] })
			So(g.Load(ctx), ShouldBeNil)

			Convey("Then user-added columns and unsaved edits survive", func() {
				So(g.Columns(), ShouldResemble, []types.Date{jan5, jan6, types.Date("2024-01-07")})
				c, ok := g.Cell(bob.ID, types.Date("2024-01-07"))
				So(ok, ShouldBeTrue)
				So(c.Saved, ShouldBeFalse)
			})

			Convey("And saved cells deleted elsewhere are dropped", func() {
				_, ok := g.Cell(1, jan5)
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestRemoveColumn(t *testing.T) {
	Convey("Given a grid with saved scores on one date", t, func() {
		ctx := context.Background()
		scores := &fakeScores{records: []model.ScoreRecord{
			{ParticipantID: 1, Date: jan5, Score: scoring.Number(3)},
			{ParticipantID: 2, Date: jan5, Score: scoring.Number(5)},
		}}

		Convey("When no confirmer is configured", func() {
			g := loadedGrid(ctx, scores)
			err := g.RemoveColumn(ctx, "2024-01-05")

			Convey("Then nothing is deleted", func() {
				So(errors.Is(err, journal.ErrNotConfirmed), ShouldBeTrue)
				So(scores.deletes, ShouldBeEmpty)
				So(g.Columns(), ShouldResemble, []types.Date{jan5})
			})
		})

		Convey("When the operator declines", func() {
			var asked string
			g := loadedGrid(ctx, scores, journal.WithConfirmer(journal.ConfirmFunc(func(_ context.Context, msg string) bool {
				asked = msg
				return false
			})))
			err := g.RemoveColumn(ctx, "2024-01-05")

			Convey("Then the date is named in the prompt and nothing changes", func() {
				So(asked, ShouldEqual, "Are you sure you want to delete the scores for 2024-01-05?")
				So(errors.Is(err, journal.ErrNotConfirmed), ShouldBeTrue)
				So(g.TotalScore(2), ShouldEqual, 5)
				So(g.Err(), ShouldBeEmpty)
			})
		})

		Convey("When the remote delete succeeds", func() {
			g := loadedGrid(ctx, scores, journal.WithConfirmer(journal.AlwaysConfirm))
			err := g.RemoveColumn(ctx, "2024-01-05T12:00:00Z")

			Convey("Then cells of every participant under that date are gone", func() {
				So(err, ShouldBeNil)
				So(g.Columns(), ShouldBeEmpty)
				So(g.Stats().Cells, ShouldEqual, 0)
				So(g.TotalScore(1), ShouldEqual, 0)
				So(g.TotalScore(2), ShouldEqual, 0)
			})
		})

		Convey("When the remote delete fails", func() {
			scores.set(func(s *fakeScores) { s.deleteErr = errors.New("500") })
			g := loadedGrid(ctx, scores, journal.WithConfirmer(journal.AlwaysConfirm))
			err := g.RemoveColumn(ctx, "2024-01-05")

			Convey("Then state is unchanged and the failure reported", func() {
				So(errors.Is(err, journal.ErrRemote), ShouldBeTrue)
				So(g.Columns(), ShouldResemble, []types.Date{jan5})
				So(g.TotalScore(2), ShouldEqual, 5)
				So(g.Err(), ShouldEqual, "Failed to delete the date. Please try again.")
			})
		})

		Convey("When the column is unknown", func() {
			g := loadedGrid(ctx, scores, journal.WithConfirmer(journal.AlwaysConfirm))
			err := g.RemoveColumn(ctx, "2030-01-01")

			Convey("Then no remote call is made", func() {
				So(errors.Is(err, journal.ErrUnknownColumn), ShouldBeTrue)
				So(scores.deletes, ShouldBeEmpty)
				So(g.Err(), ShouldEqual, "Unknown date column.")
			})
		})
	})
}

func TestOverlappingOperations(t *testing.T) {
	Convey("Given a save that is still in flight", t, func() {
		ctx := context.Background()
		entered := make(chan struct{})
		release := make(chan struct{})
		scores := &fakeScores{}
		g := loadedGrid(ctx, scores, journal.WithConfirmer(journal.AlwaysConfirm))
		_, _ = g.AddColumn("2024-01-05")
		So(g.SetCellValue(ann.ID, "2024-01-05", "3"), ShouldBeNil)
		scores.set(func(s *fakeScores) {
			s.beforeSave = func() {
				close(entered)
				<-release
			}
		})

		var wg sync.WaitGroup
		var saveErr error
		wg.Add(1)
		go func() {
			defer wg.Done()
			saveErr = g.SaveCell(ctx, ann.ID, "2024-01-05")
		}()
		<-entered

		Convey("When the column is removed before the save completes", func() {
			removeErr := g.RemoveColumn(ctx, "2024-01-05")
			close(release)
			wg.Wait()

			Convey("Then the late save does not resurrect the cell", func() {
				So(removeErr, ShouldBeNil)
				So(saveErr, ShouldBeNil)
				_, ok := g.Cell(ann.ID, jan5)
				So(ok, ShouldBeFalse)
				So(g.Columns(), ShouldBeEmpty)
			})
		})
	})
}

func TestSnapshot(t *testing.T) {
	Convey("Given a grid with loaded and edited cells", t, func() {
		ctx := context.Background()
		scores := &fakeScores{records: []model.ScoreRecord{
			{ParticipantID: 1, Date: jan5, Score: scoring.Number(3)},
			{ParticipantID: 99, Date: jan5, Score: scoring.Number(6)},
		}}
		g := loadedGrid(ctx, scores)
		_, _ = g.AddColumn("2024-01-06")
		So(g.SetCellValue(bob.ID, "2024-01-06", "1.5"), ShouldBeNil)

		view := g.Snapshot()

		Convey("Then rows follow participant order with totals and cells", func() {
			So(view.Columns, ShouldResemble, []types.Date{jan5, jan6})
			So(view.Rows, ShouldHaveLength, 3)
			So(view.Rows[0].Participant.ID, ShouldEqual, ann.ID)
			So(view.Rows[0].Cells[jan5], ShouldResemble, journal.Cell{Value: "3", Saved: true})
			So(view.Rows[2].Participant.ID, ShouldEqual, bob.ID)
			So(view.Rows[2].Total, ShouldEqual, 1.5)
			So(view.Options, ShouldResemble, scoring.Options())
		})

		Convey("Then stats count every cell including unknown participants", func() {
			So(g.Stats(), ShouldResemble, journal.Stats{Participants: 3, Columns: 2, Cells: 3, Saved: 2})
		})
	})
}
