package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"idportal/internal/model"
)

type EmployeeRepositorySuite struct {
	suite.Suite
	ctx   context.Context
	f     *fixture
	repo  EmployeeRepository
	stats StatisticsRepository
}

func TestEmployeeRepositorySuite(t *testing.T) {
	suite.Run(t, new(EmployeeRepositorySuite))
}

func (s *EmployeeRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.f = newFixture(s.T())
	s.repo = NewEmployeeRepository(s.f.store, s.f.norm, s.f.logger, s.f.metrics)
	s.stats = NewStatisticsRepository(s.f.store, ist)
}

func (s *EmployeeRepositorySuite) employee(name string, status model.EmployeeStatus, applied time.Time) *model.Employee {
	return &model.Employee{
		EmpNo:               "E-" + name,
		EmpName:             name,
		Designation:         "Technician",
		Department:          "MECHANICAL",
		Station:             "BHUBANESWAR",
		DOB:                 time.Date(1985, 5, 5, 0, 0, 0, 0, ist).UTC(),
		Address:             "Mancheswar",
		MobileNumber:        "9437000000",
		ApplicationDate:     applied,
		Status:              status,
		IdentificationMarks: []string{"scar on chin"},
		FamilyMembers: []model.EmployeeFamilyMember{
			{Name: "Child", Relationship: "Son", DOB: time.Date(2012, 1, 1, 0, 0, 0, 0, ist).UTC()},
		},
	}
}

func (s *EmployeeRepositorySuite) create(emp *model.Employee) string {
	id, err := s.repo.Create(s.ctx, emp)
	s.Require().NoError(err)
	return id
}

func (s *EmployeeRepositorySuite) TestCreateGetUpdateDelete() {
	applied := time.Date(2024, 4, 1, 6, 0, 0, 0, time.UTC)
	id := s.create(s.employee("Sahoo R", model.EmployeePending, applied))

	got, err := s.repo.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Sahoo R", got.EmpName)
	s.True(applied.Equal(got.ApplicationDate))
	s.Equal([]string{"scar on chin"}, got.IdentificationMarks)
	s.Require().Len(got.FamilyMembers, 1)
	s.False(got.CreatedAt.IsZero())

	got.Designation = "Senior Technician"
	s.Require().NoError(s.repo.Update(s.ctx, got))

	updated, err := s.repo.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Senior Technician", updated.Designation)
	s.True(got.CreatedAt.Equal(updated.CreatedAt))

	s.Require().NoError(s.repo.SetFileURL(s.ctx, id, model.EmployeeSlotPhoto, "http://x/files/employees/1/photo.jpg"))
	withPhoto, err := s.repo.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("http://x/files/employees/1/photo.jpg", withPhoto.PhotoURL)
	s.Error(s.repo.SetFileURL(s.ctx, id, "passport", "x"))

	s.Require().NoError(s.repo.Delete(s.ctx, id))
	_, err = s.repo.GetByID(s.ctx, id)
	s.ErrorIs(err, ErrNotFound)

	missing := s.employee("Ghost", model.EmployeePending, applied)
	missing.ID = "missing"
	s.ErrorIs(s.repo.Update(s.ctx, missing), ErrNotFound)
}

func (s *EmployeeRepositorySuite) TestListFiltersAndPaging() {
	applied := time.Date(2024, 4, 1, 6, 0, 0, 0, time.UTC)
	s.create(s.employee("A", model.EmployeePending, applied))
	s.create(s.employee("B", model.EmployeeClosed, applied))
	s.create(s.employee("C", model.EmployeePending, applied))

	list, total, err := s.repo.List(s.ctx, model.EmployeeFilter{Status: string(model.EmployeePending)}, 1, 1)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(list, 1)

	all, total, err := s.repo.List(s.ctx, model.EmployeeFilter{Department: "MECHANICAL"}, 1, 20)
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Len(all, 3)

	none, total, err := s.repo.List(s.ctx, model.EmployeeFilter{Station: "PURI"}, 1, 20)
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(none)
}

func (s *EmployeeRepositorySuite) TestSearchAndDateRange() {
	s.create(s.employee("Sahoo R", model.EmployeePending, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))
	s.create(s.employee("Samal K", model.EmployeePending, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)))
	s.create(s.employee("Das P", model.EmployeePending, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)))

	found, err := s.repo.SearchByName(s.ctx, "Sa", 20)
	s.Require().NoError(err)
	s.Require().Len(found, 2)
	s.Equal("Sahoo R", found[0].EmpName)
	s.Equal("Samal K", found[1].EmpName)

	inRange, err := s.repo.ListByApplicationDate(s.ctx,
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Require().Len(inRange, 2)
	s.Equal("Das P", inRange[0].EmpName)
	s.Equal("Samal K", inRange[1].EmpName)
}

func (s *EmployeeRepositorySuite) TestBulkOperationsAreAtomic() {
	applied := time.Date(2024, 4, 1, 6, 0, 0, 0, time.UTC)
	a := s.create(s.employee("A", model.EmployeePending, applied))
	b := s.create(s.employee("B", model.EmployeePending, applied))

	err := s.repo.BulkUpdateStatus(s.ctx, []string{a, "missing", b}, model.EmployeeClosed)
	s.ErrorIs(err, ErrNotFound)
	got, err := s.repo.GetByID(s.ctx, a)
	s.Require().NoError(err)
	s.Equal(model.EmployeePending, got.Status)

	s.Require().NoError(s.repo.BulkUpdateStatus(s.ctx, []string{a, b}, model.EmployeeClosed))
	got, err = s.repo.GetByID(s.ctx, b)
	s.Require().NoError(err)
	s.Equal(model.EmployeeClosed, got.Status)

	s.Require().NoError(s.repo.BulkDelete(s.ctx, []string{a, b}))
	all, err := s.repo.All(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)

	s.NoError(s.repo.BulkDelete(s.ctx, nil))
}

func (s *EmployeeRepositorySuite) TestStatisticsRecount() {
	_, err := s.stats.Get(s.ctx)
	s.ErrorIs(err, ErrNotFound)

	applied := time.Date(2024, 4, 1, 6, 0, 0, 0, time.UTC)
	s.create(s.employee("A", model.EmployeePending, applied))
	s.create(s.employee("B", model.EmployeeClosed, applied))
	s.create(s.employee("C", model.EmployeeRejected, applied))
	s.create(s.employee("D", model.EmployeePrintingDraft, applied))
	s.create(s.employee("E", model.EmployeePending, applied))

	stats, err := s.stats.Recount(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(5), stats.TotalApplications)
	s.Equal(int64(2), stats.PendingCount)
	s.Equal(int64(1), stats.ApprovedCount)
	s.Equal(int64(1), stats.RejectedCount)

	stored, err := s.stats.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(stats.TotalApplications, stored.TotalApplications)
	s.Equal(stats.PendingCount, stored.PendingCount)
	s.True(stats.LastUpdated.Truncate(time.Second).Equal(stored.LastUpdated.Truncate(time.Second)))
}
