package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"anoa.com/municipalservices/internal/entity"
	addressDto "anoa.com/municipalservices/internal/modules/address/dto"
	"anoa.com/municipalservices/internal/modules/occupancy/dto"
	"anoa.com/municipalservices/pkg/apperror"
	"anoa.com/municipalservices/pkg/database"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type pair struct{ addressID, citizenID uint }

type fakeOccupancyRepo struct {
	links map[pair]*entity.CitizenAddress
}

func (r *fakeOccupancyRepo) Create(_ context.Context, link *entity.CitizenAddress) error {
	key := pair{link.AddressID, link.CitizenID}
	if _, ok := r.links[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.links[key] = link
	return nil
}

func (r *fakeOccupancyRepo) Find(_ context.Context, addressID, citizenID uint) (*entity.CitizenAddress, error) {
	link, ok := r.links[pair{addressID, citizenID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *link
	return &copied, nil
}

func (r *fakeOccupancyRepo) ListByAddress(_ context.Context, addressID uint) ([]dto.OccupantView, error) {
	var out []dto.OccupantView
	for key, link := range r.links {
		if key.addressID == addressID {
			out = append(out, dto.OccupantView{CitizenID: key.citizenID, AddressID: addressID, Role: link.Role})
		}
	}
	return out, nil
}

func (r *fakeOccupancyRepo) Update(_ context.Context, addressID, citizenID uint, updates map[string]interface{}) (int64, error) {
	link, ok := r.links[pair{addressID, citizenID}]
	if !ok {
		return 0, nil
	}
	if role, ok := updates["role"]; ok {
		link.Role = role.(string)
	}
	if end, ok := updates["end_date"]; ok {
		if t, isTime := end.(time.Time); isTime {
			link.EndDate = &t
		} else {
			link.EndDate = nil
		}
	}
	return 1, nil
}

func (r *fakeOccupancyRepo) Delete(_ context.Context, addressID, citizenID uint) (int64, error) {
	key := pair{addressID, citizenID}
	if _, ok := r.links[key]; !ok {
		return 0, nil
	}
	delete(r.links, key)
	return 1, nil
}

// fakeAddressRepo knows address 10 in building 1.
type fakeAddressRepo struct{}

func (fakeAddressRepo) Create(context.Context, *entity.Address) error { return nil }

func (fakeAddressRepo) FindByID(context.Context, uint) (*entity.Address, error) {
	return nil, gorm.ErrRecordNotFound
}

func (fakeAddressRepo) FindInBuilding(_ context.Context, buildingID, addressID uint) (*entity.Address, error) {
	if buildingID == 1 && addressID == 10 {
		return &entity.Address{ID: 10, BuildingID: 1, FlatNo: "1A"}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (fakeAddressRepo) ListByBuilding(context.Context, uint) ([]*entity.Address, error) {
	return nil, nil
}

func (fakeAddressRepo) ListViews(context.Context) ([]addressDto.AddressView, error) { return nil, nil }

func (fakeAddressRepo) FindViewsByIDs(context.Context, []uint) ([]addressDto.AddressView, error) {
	return nil, nil
}

func (fakeAddressRepo) UpdateFlatNo(context.Context, uint, string) error { return nil }

func (fakeAddressRepo) Delete(context.Context, uint, uint) (int64, error) { return 0, nil }

func (fakeAddressRepo) CountByBuilding(context.Context, uint) (int64, error) { return 0, nil }

func (fakeAddressRepo) Exists(_ context.Context, id uint) (bool, error) { return id == 10, nil }

// fakeCitizenRepo knows citizens 100 and 101.
type fakeCitizenRepo struct{}

func (fakeCitizenRepo) Create(context.Context, *entity.Citizen) error { return nil }

func (fakeCitizenRepo) FindByID(context.Context, uint) (*entity.Citizen, error) {
	return nil, gorm.ErrRecordNotFound
}

func (fakeCitizenRepo) FindByIDs(context.Context, []uint) ([]*entity.Citizen, error) {
	return nil, nil
}

func (fakeCitizenRepo) List(context.Context, string) ([]*entity.Citizen, error) { return nil, nil }

func (fakeCitizenRepo) Update(context.Context, uint, map[string]interface{}) error { return nil }

func (fakeCitizenRepo) Delete(context.Context, uint) (int64, error) { return 0, nil }

func (fakeCitizenRepo) Exists(_ context.Context, id uint) (bool, error) {
	return id == 100 || id == 101, nil
}

type OccupancyServiceSuite struct {
	suite.Suite
	ctx  context.Context
	repo *fakeOccupancyRepo
	svc  *occupancyService
}

func TestOccupancyServiceSuite(t *testing.T) {
	suite.Run(t, new(OccupancyServiceSuite))
}

func (s *OccupancyServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = &fakeOccupancyRepo{links: map[pair]*entity.CitizenAddress{}}
	s.svc = NewOccupancyService(s.repo, fakeAddressRepo{}, fakeCitizenRepo{}, database.NoopTransactor{}).(*occupancyService)
	s.svc.now = func() time.Time { return time.Date(2024, time.March, 9, 15, 4, 5, 0, time.UTC) }
}

func strPtr(v string) *string { return &v }

func (s *OccupancyServiceSuite) TestLinkCitizenDefaultsStartDate() {
	link, err := s.svc.LinkCitizen(s.ctx, 1, 10, dto.LinkCitizenRequest{CitizenID: 100, Role: " tenant "})
	s.Require().NoError(err)

	s.Equal("tenant", link.Role)
	s.Equal(time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC), link.StartDate)
	s.Nil(link.EndDate)
}

func (s *OccupancyServiceSuite) TestLinkCitizenTwiceIsRejected() {
	_, err := s.svc.LinkCitizen(s.ctx, 1, 10, dto.LinkCitizenRequest{CitizenID: 100, Role: "owner"})
	s.Require().NoError(err)

	_, err = s.svc.LinkCitizen(s.ctx, 1, 10, dto.LinkCitizenRequest{CitizenID: 100, Role: "tenant"})
	s.Equal(http.StatusBadRequest, apperror.MapErrorToStatus(err))
	s.EqualError(err, "citizen already linked to this address")
	s.Len(s.repo.links, 1)
}

func (s *OccupancyServiceSuite) TestLinkCitizenValidatesReferences() {
	_, err := s.svc.LinkCitizen(s.ctx, 2, 10, dto.LinkCitizenRequest{CitizenID: 100, Role: "owner"})
	s.Equal(http.StatusNotFound, apperror.MapErrorToStatus(err), "address belongs to another building")

	_, err = s.svc.LinkCitizen(s.ctx, 1, 10, dto.LinkCitizenRequest{CitizenID: 555, Role: "owner"})
	s.Equal(http.StatusBadRequest, apperror.MapErrorToStatus(err))

	_, err = s.svc.LinkCitizen(s.ctx, 1, 10, dto.LinkCitizenRequest{
		CitizenID: 100,
		Role:      "owner",
		StartDate: strPtr("2024-05-01"),
		EndDate:   strPtr("2024-04-01"),
	})
	s.Equal(http.StatusBadRequest, apperror.MapErrorToStatus(err))
	s.Empty(s.repo.links)
}

func (s *OccupancyServiceSuite) TestUpdateOccupancyNeverCreates() {
	_, err := s.svc.UpdateOccupancy(s.ctx, 1, 10, 101, dto.UpdateOccupancyRequest{Role: strPtr("owner")})

	s.Equal(http.StatusNotFound, apperror.MapErrorToStatus(err))
	s.Empty(s.repo.links)
}

func (s *OccupancyServiceSuite) TestUpdateOccupancy() {
	_, err := s.svc.LinkCitizen(s.ctx, 1, 10, dto.LinkCitizenRequest{CitizenID: 100, Role: "tenant", StartDate: strPtr("2024-01-01")})
	s.Require().NoError(err)

	link, err := s.svc.UpdateOccupancy(s.ctx, 1, 10, 100, dto.UpdateOccupancyRequest{Role: strPtr("owner"), EndDate: strPtr("2024-12-31")})
	s.Require().NoError(err)
	s.Equal("owner", link.Role)
	s.Require().NotNil(link.EndDate)

	_, err = s.svc.UpdateOccupancy(s.ctx, 1, 10, 100, dto.UpdateOccupancyRequest{EndDate: strPtr("2023-12-31")})
	s.Equal(http.StatusBadRequest, apperror.MapErrorToStatus(err))

	_, err = s.svc.UpdateOccupancy(s.ctx, 1, 10, 100, dto.UpdateOccupancyRequest{})
	s.Equal(http.StatusBadRequest, apperror.MapErrorToStatus(err))
}

func (s *OccupancyServiceSuite) TestUpdateOccupancyClearsEndDate() {
	_, err := s.svc.LinkCitizen(s.ctx, 1, 10, dto.LinkCitizenRequest{
		CitizenID: 100, Role: "tenant", StartDate: strPtr("2024-01-01"), EndDate: strPtr("2024-06-30"),
	})
	s.Require().NoError(err)

	link, err := s.svc.UpdateOccupancy(s.ctx, 1, 10, 100, dto.UpdateOccupancyRequest{ClearEndDate: true})
	s.Require().NoError(err)
	s.Nil(link.EndDate)
	s.Nil(s.repo.links[pair{10, 100}].EndDate)

	_, err = s.svc.UpdateOccupancy(s.ctx, 1, 10, 100, dto.UpdateOccupancyRequest{
		EndDate: strPtr("2024-12-31"), ClearEndDate: true,
	})
	s.Equal(http.StatusBadRequest, apperror.MapErrorToStatus(err))
}

func (s *OccupancyServiceSuite) TestUnlinkCitizen() {
	_, err := s.svc.LinkCitizen(s.ctx, 1, 10, dto.LinkCitizenRequest{CitizenID: 100, Role: "tenant"})
	s.Require().NoError(err)

	s.NoError(s.svc.UnlinkCitizen(s.ctx, 1, 10, 100))

	err = s.svc.UnlinkCitizen(s.ctx, 1, 10, 100)
	s.Equal(http.StatusNotFound, apperror.MapErrorToStatus(err))
}

func (s *OccupancyServiceSuite) TestListOccupants() {
	_, err := s.svc.LinkCitizen(s.ctx, 1, 10, dto.LinkCitizenRequest{CitizenID: 100, Role: "tenant"})
	s.Require().NoError(err)

	occupants, err := s.svc.ListOccupants(s.ctx, 1, 10)
	s.Require().NoError(err)
	s.Len(occupants, 1)

	_, err = s.svc.ListOccupants(s.ctx, 1, 11)
	s.Equal(http.StatusNotFound, apperror.MapErrorToStatus(err))
}
