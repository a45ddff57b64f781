package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/journal/internal/adapters/storage"
	"github.com/okian/journal/internal/domain/model"
	"github.com/okian/journal/internal/domain/pairing"
	"github.com/okian/journal/internal/domain/scoring"
	"github.com/okian/journal/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func openMemory(ctx context.Context) *storage.Store {
	s, err := storage.Open(ctx, storage.SQLite, ":memory:", storage.WithPairing(pairing.New(pairing.WithSeed(1))))
	So(err, ShouldBeNil)
	return s
}

func TestDialect(t *testing.T) {
	Convey("Given backend mode names", t, func() {
		d, err := storage.DialectFor("sqlite")
		So(err, ShouldBeNil)
		So(d.Name, ShouldEqual, "sqlite")

		d, err = storage.DialectFor("pgx")
		So(err, ShouldBeNil)
		So(d.Name, ShouldEqual, "postgres")

		_, err = storage.DialectFor("oracle")
		So(errors.Is(err, storage.ErrUnknownDialect), ShouldBeTrue)
	})
}

func TestParticipants(t *testing.T) {
	Convey("Given an in-memory store", t, func() {
		ctx := context.Background()
		s := openMemory(ctx)
		defer func() { _ = s.Close() }()

		So(s.Name(), ShouldEqual, "sqlite")
		So(s.Ping(ctx), ShouldBeNil)

		Convey("When participants are created on both teams", func() {
			a, err := s.CreateParticipant(ctx, model.Participant{Name: "Ann", Team: model.TeamBlue})
			So(err, ShouldBeNil)
			_, err = s.CreateParticipant(ctx, model.Participant{Name: "Bob", Team: model.TeamYellow})
			So(err, ShouldBeNil)
			_, err = s.CreateParticipant(ctx, model.Participant{Name: "Cat", Team: model.TeamBlue})
			So(err, ShouldBeNil)

			Convey("Then they are listed per team with ids", func() {
				So(a.ID, ShouldBeGreaterThan, 0)
				blue, err := s.ListParticipants(ctx, model.TeamBlue)
				So(err, ShouldBeNil)
				So(blue, ShouldHaveLength, 2)
				So(blue[0].Name, ShouldEqual, "Ann")
				So(blue[1].Name, ShouldEqual, "Cat")
			})

			Convey("Then pairs match one blue with one yellow", func() {
				pairs, err := s.ListPairs(ctx)
				So(err, ShouldBeNil)
				So(pairs, ShouldHaveLength, 1)
				So(pairs[0].Yellow.Name, ShouldEqual, "Bob")
				So(pairs[0].Blue.Team, ShouldEqual, model.TeamBlue)
			})

			Convey("Then deleting a participant cascades to their scores", func() {
				So(s.UpsertScore(ctx, model.ScoreRecord{ParticipantID: a.ID, Date: "2024-01-05", Score: scoring.Number(3)}), ShouldBeNil)
				So(s.DeleteParticipant(ctx, a.ID), ShouldBeNil)
				recs, err := s.ListScores(ctx)
				So(err, ShouldBeNil)
				So(recs, ShouldBeEmpty)
			})
		})

		Convey("When a participant is invalid", func() {
			_, err := s.CreateParticipant(ctx, model.Participant{Name: "", Team: model.TeamBlue})

			Convey("Then nothing is stored", func() {
				So(errors.Is(err, model.ErrNameRequired), ShouldBeTrue)
			})
		})

		Convey("When deleting a missing participant", func() {
			err := s.DeleteParticipant(ctx, 404)

			Convey("Then it reports not found", func() {
				So(errors.Is(err, model.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestScores(t *testing.T) {
	Convey("Given a store with one participant", t, func() {
		ctx := context.Background()
		s := openMemory(ctx)
		defer func() { _ = s.Close() }()
		p, err := s.CreateParticipant(ctx, model.Participant{Name: "Ann", Team: model.TeamBlue})
		So(err, ShouldBeNil)

		Convey("When scores are upserted", func() {
			So(s.UpsertScore(ctx, model.ScoreRecord{ParticipantID: p.ID, Date: "2024-01-06", Score: scoring.NA()}), ShouldBeNil)
			So(s.UpsertScore(ctx, model.ScoreRecord{ParticipantID: p.ID, Date: "2024-01-05", Score: scoring.Number(2)}), ShouldBeNil)
			So(s.UpsertScore(ctx, model.ScoreRecord{ParticipantID: p.ID, Date: "2024-01-05", Score: scoring.Number(4.5)}), ShouldBeNil)

			recs, err := s.ListScores(ctx)

			Convey("Then the second write overwrites and N round-trips", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldResemble, []model.ScoreRecord{
					{ParticipantID: p.ID, Date: types.Date("2024-01-05"), Score: scoring.Number(4.5)},
					{ParticipantID: p.ID, Date: types.Date("2024-01-06"), Score: scoring.NA()},
				})
			})

			Convey("And deleting a date removes only that date", func() {
				So(s.DeleteScoresForDate(ctx, "2024-01-05"), ShouldBeNil)
				recs, err := s.ListScores(ctx)
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 1)
				So(recs[0].Date, ShouldEqual, types.Date("2024-01-06"))
			})

			Convey("And deleting an empty date succeeds", func() {
				So(s.DeleteScoresForDate(ctx, "2030-01-01"), ShouldBeNil)
			})
		})

		Convey("When the participant does not exist", func() {
			err := s.UpsertScore(ctx, model.ScoreRecord{ParticipantID: 999, Date: "2024-01-05", Score: scoring.Number(1)})

			Convey("Then the foreign key rejects the score", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestUsersAndActivities(t *testing.T) {
	Convey("Given an in-memory store", t, func() {
		ctx := context.Background()
		s := openMemory(ctx)
		defer func() { _ = s.Close() }()

		Convey("When a user is created, updated and deleted", func() {
			u, err := s.CreateUser(ctx, model.User{FirstName: "Ann", LastName: "Lee", Age: 30})
			So(err, ShouldBeNil)
			u.Age = 31
			_, err = s.UpdateUser(ctx, u)
			So(err, ShouldBeNil)

			users, err := s.ListUsers(ctx)
			So(err, ShouldBeNil)
			So(users, ShouldResemble, []model.User{{ID: u.ID, FirstName: "Ann", LastName: "Lee", Age: 31}})

			So(s.DeleteUser(ctx, u.ID), ShouldBeNil)
			_, err = s.UpdateUser(ctx, u)
			So(errors.Is(err, model.ErrNotFound), ShouldBeTrue)
		})

		Convey("When activities are logged", func() {
			a, err := s.CreateActivity(ctx, model.Activity{Description: "ran 5km", UserID: 7})
			So(err, ShouldBeNil)
			_, err = s.CreateActivity(ctx, model.Activity{})
			So(errors.Is(err, model.ErrDescriptionRequired), ShouldBeTrue)

			acts, err := s.ListActivities(ctx)
			So(err, ShouldBeNil)
			So(acts, ShouldHaveLength, 1)
			So(acts[0].UserID, ShouldEqual, 7)

			So(s.DeleteActivity(ctx, a.ID), ShouldBeNil)
			So(errors.Is(s.DeleteActivity(ctx, a.ID), model.ErrNotFound), ShouldBeTrue)
		})
	})
}
