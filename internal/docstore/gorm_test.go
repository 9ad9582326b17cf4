package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *GormStore
}

func TestGormStoreSuite(t *testing.T) {
	suite.Run(t, new(GormStoreSuite))
}

func (s *GormStoreSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)

	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.ctx = context.Background()
	s.store = NewGormStore(db)
	s.Require().NoError(s.store.Migrate(s.ctx))
}

func (s *GormStoreSuite) TearDownTest() {
	s.Require().NoError(s.store.Close(s.ctx))
}

func (s *GormStoreSuite) seed(collection string, docs map[string]Document, order ...string) {
	for _, id := range order {
		s.Require().NoError(s.store.Set(s.ctx, collection, id, docs[id]))
	}
}

func (s *GormStoreSuite) ids(snaps []Snapshot) []string {
	out := make([]string, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, snap.ID)
	}
	return out
}

func (s *GormStoreSuite) TestSetGetUpdateDelete() {
	s.Run("get missing", func() {
		_, err := s.store.Get(s.ctx, "applications", "nope")
		s.ErrorIs(err, ErrNotFound)
	})

	s.Run("set then get", func() {
		err := s.store.Set(s.ctx, "applications", "ECR-1", Document{
			"employeeName": "R. K. Sahoo",
			"status":       "pending",
			"dateOfBirth":  map[string]any{"seconds": 522288000, "nanoseconds": 0},
		})
		s.Require().NoError(err)

		snap, err := s.store.Get(s.ctx, "applications", "ECR-1")
		s.Require().NoError(err)
		s.Equal("ECR-1", snap.ID)
		s.Equal("pending", snap.Data["status"])
		s.False(snap.CreatedAt.IsZero())

		dob, ok := snap.Data["dateOfBirth"].(map[string]any)
		s.Require().True(ok)
		s.Equal(json.Number("522288000"), dob["seconds"])
	})

	s.Run("update merges fields", func() {
		s.Require().NoError(s.store.Update(s.ctx, "applications", "ECR-1", Document{"status": "approved"}))

		snap, err := s.store.Get(s.ctx, "applications", "ECR-1")
		s.Require().NoError(err)
		s.Equal("approved", snap.Data["status"])
		s.Equal("R. K. Sahoo", snap.Data["employeeName"])
	})

	s.Run("update missing", func() {
		err := s.store.Update(s.ctx, "applications", "ECR-404", Document{"status": "approved"})
		s.ErrorIs(err, ErrNotFound)
	})

	s.Run("set replaces and keeps creation time", func() {
		before, err := s.store.Get(s.ctx, "applications", "ECR-1")
		s.Require().NoError(err)

		s.Require().NoError(s.store.Set(s.ctx, "applications", "ECR-1", Document{"status": "rejected"}))

		after, err := s.store.Get(s.ctx, "applications", "ECR-1")
		s.Require().NoError(err)
		s.Equal(Document{"status": "rejected"}, after.Data)
		s.True(before.CreatedAt.Equal(after.CreatedAt))
	})

	s.Run("delete is idempotent", func() {
		s.Require().NoError(s.store.Delete(s.ctx, "applications", "ECR-1"))
		s.Require().NoError(s.store.Delete(s.ctx, "applications", "ECR-1"))

		_, err := s.store.Get(s.ctx, "applications", "ECR-1")
		s.ErrorIs(err, ErrNotFound)
	})
}

func (s *GormStoreSuite) TestFindOrderingAndPaging() {
	docs := map[string]Document{
		"a": {"status": "pending"},
		"b": {"status": "approved"},
		"c": {"status": "pending"},
		"d": {"status": "pending"},
	}
	s.seed("employees", docs, "a", "b", "c", "d")
	s.seed("other", map[string]Document{"x": {"status": "pending"}}, "x")

	all, err := s.store.Find(s.ctx, "employees", Query{})
	s.Require().NoError(err)
	s.Equal([]string{"a", "b", "c", "d"}, s.ids(all))

	newest, err := s.store.Find(s.ctx, "employees", Query{Newest: true})
	s.Require().NoError(err)
	s.Equal([]string{"d", "c", "b", "a"}, s.ids(newest))

	pending, err := s.store.Find(s.ctx, "employees", Query{
		Filters: []Filter{Where("status", "pending")},
		Limit:   2,
		Offset:  1,
	})
	s.Require().NoError(err)
	s.Equal([]string{"c", "d"}, s.ids(pending))

	count, err := s.store.Count(s.ctx, "employees", Where("status", "pending"))
	s.Require().NoError(err)
	s.Equal(int64(3), count)
}

func (s *GormStoreSuite) TestPrefixFilter() {
	docs := map[string]Document{
		"1": {"empName": "Sahoo R"},
		"2": {"empName": "sahoo p"},
		"3": {"empName": "Samal K"},
		"4": {"empName": "100% Sa"},
	}
	s.seed("employees", docs, "1", "2", "3", "4")

	found, err := s.store.Find(s.ctx, "employees", Query{Filters: []Filter{HasPrefix("empName", "Sah")}})
	s.Require().NoError(err)
	s.Equal([]string{"1"}, s.ids(found))

	found, err = s.store.Find(s.ctx, "employees", Query{Filters: []Filter{HasPrefix("empName", "100%")}})
	s.Require().NoError(err)
	s.Equal([]string{"4"}, s.ids(found))

	count, err := s.store.Count(s.ctx, "employees", HasPrefix("empName", "Sa"))
	s.Require().NoError(err)
	s.Equal(int64(2), count)

	limited, err := s.store.Find(s.ctx, "employees", Query{Filters: []Filter{HasPrefix("empName", "Sa")}, Limit: 1})
	s.Require().NoError(err)
	s.Equal([]string{"1"}, s.ids(limited))
}

func (s *GormStoreSuite) TestCommitIsAtomic() {
	s.seed("employees", map[string]Document{"e1": {"status": "pending"}}, "e1")

	s.Run("all writes applied", func() {
		err := s.store.Commit(s.ctx,
			UpdateWrite("employees", "e1", Document{"status": "closed"}),
			SetWrite("audit_logs", "l1", Document{"action": "UPDATE_EMPLOYEE_STATUS"}),
		)
		s.Require().NoError(err)

		snap, err := s.store.Get(s.ctx, "employees", "e1")
		s.Require().NoError(err)
		s.Equal("closed", snap.Data["status"])

		_, err = s.store.Get(s.ctx, "audit_logs", "l1")
		s.NoError(err)
	})

	s.Run("failed write rolls back the batch", func() {
		err := s.store.Commit(s.ctx,
			SetWrite("audit_logs", "l2", Document{"action": "BULK_DELETE_EMPLOYEES"}),
			DeleteWrite("employees", "e1"),
			UpdateWrite("employees", "missing", Document{"status": "closed"}),
		)
		s.ErrorIs(err, ErrNotFound)

		_, err = s.store.Get(s.ctx, "audit_logs", "l2")
		s.ErrorIs(err, ErrNotFound)
		_, err = s.store.Get(s.ctx, "employees", "e1")
		s.NoError(err)
	})

	s.Run("malformed write", func() {
		err := s.store.Commit(s.ctx, SetWrite("", "x", Document{}))
		s.ErrorIs(err, ErrInvalidWrite)
	})
}

func (s *GormStoreSuite) TestWindow() {
	snaps := []Snapshot{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	s.Equal([]string{"2"}, s.ids(window(snaps, 1, 1)))
	s.Empty(window(snaps, 5, 0))
	s.Len(window(snaps, 0, 0), 3)
}

func (s *GormStoreSuite) TestRunInTxRollsBack() {
	boom := errors.New("boom")

	err := s.store.RunInTx(s.ctx, func(txCtx context.Context) error {
		if err := s.store.Set(txCtx, "applications", "ECR-9", Document{"status": "pending"}); err != nil {
			return err
		}
		// Commit joins the surrounding transaction.
		if err := s.store.Commit(txCtx, SetWrite("audit_logs", "l9", Document{"action": "x"})); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.store.Get(s.ctx, "applications", "ECR-9")
	s.ErrorIs(err, ErrNotFound)
	_, err = s.store.Get(s.ctx, "audit_logs", "l9")
	s.ErrorIs(err, ErrNotFound)
}
