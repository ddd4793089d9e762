package content

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/matzehuels/ridgeline/pkg/errors"
)

func deleteFilter(mt *mtest.T) bson.Raw {
	mt.Helper()
	ev := mt.GetStartedEvent()
	if ev == nil || ev.CommandName != "delete" {
		mt.Fatalf("expected a delete command, got %v", ev)
	}
	q, err := ev.Command.LookupErr("deletes", "0", "q")
	if err != nil {
		mt.Fatalf("delete has no filter: %v", ev.Command)
	}
	return q.Document()
}

func TestMongoImport(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	recs := []Record{
		{Category: Clubs, Title: "Chess", Order: 1},
		{Category: Clubs, Title: "Robotics", Order: 2},
	}

	mt.Run("deletes previous records after insert", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}),
		)
		s := NewMongoStoreFromCollection(nil, mt.Coll)

		n, err := s.Import(context.Background(), recs)
		if err != nil {
			mt.Fatalf("Import: %v", err)
		}
		if n != 2 {
			mt.Errorf("written = %d, want 2", n)
		}

		if ev := mt.GetStartedEvent(); ev == nil || ev.CommandName != "insert" {
			mt.Fatalf("first command = %v, want insert", ev)
		}
		q := deleteFilter(mt)
		if got := q.Lookup("category").StringValue(); got != "clubs" {
			mt.Errorf("delete category = %q, want clubs", got)
		}
		if _, err := q.LookupErr("_id", "$nin"); err != nil {
			mt.Errorf("delete should spare the new documents: %v", q)
		}
	})

	mt.Run("keeps previous records when insert fails", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 1, Code: 11000, Message: "duplicate key"}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)
		s := NewMongoStoreFromCollection(nil, mt.Coll)

		if _, err := s.Import(context.Background(), recs); !errors.Is(err, errors.ErrCodeNetwork) {
			mt.Fatalf("err = %v, want NETWORK", err)
		}

		if ev := mt.GetStartedEvent(); ev == nil || ev.CommandName != "insert" {
			mt.Fatalf("first command = %v, want insert", ev)
		}
		q := deleteFilter(mt)
		if _, err := q.LookupErr("category"); err == nil {
			mt.Errorf("cleanup must not filter by category: %v", q)
		}
		ids, err := q.LookupErr("_id", "$in")
		if err != nil {
			mt.Fatalf("cleanup should target the inserted ids: %v", q)
		}
		if vals, _ := ids.Array().Values(); len(vals) != 2 {
			mt.Errorf("cleanup ids = %d, want 2", len(vals))
		}
		if ev := mt.GetStartedEvent(); ev != nil {
			mt.Errorf("unexpected command %s after failed insert", ev.CommandName)
		}
	})

	mt.Run("rejects invalid records before writing", func(mt *mtest.T) {
		s := NewMongoStoreFromCollection(nil, mt.Coll)
		_, err := s.Import(context.Background(), []Record{{Category: Clubs}})
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			mt.Errorf("err = %v, want INVALID_INPUT", err)
		}
		if ev := mt.GetStartedEvent(); ev != nil {
			mt.Errorf("unexpected command %s", ev.CommandName)
		}
	})
}
