package service

import (
	"context"

	"github.com/shopspring/decimal"

	"rentwi-backend/internal/domain"
	"rentwi-backend/internal/logger"
	"rentwi-backend/internal/repository"
)

type carService struct {
	store repository.Store
}

func NewCarService(store repository.Store) CarService {
	return &carService{store: store}
}

func (s *carService) RegisterCar(ctx context.Context, companyUserID int32, car *domain.Car) error {
	if car.PricePerHour.IsNegative() || car.CommercialValue.IsNegative() {
		return domain.Errorf(domain.KindInvalidInput, "car prices must not be negative")
	}
	company, err := s.store.Companies().GetByUserID(ctx, companyUserID)
	if err != nil {
		return err
	}
	car.CompanyID = company.ID
	car.Status = domain.CarStatusAvailable
	if err := s.store.Cars().Create(ctx, car); err != nil {
		return err
	}
	logger.Info("car registered", "car_id", car.ID, "company_id", company.ID, "plate", car.Plate)
	return nil
}

func (s *carService) GetCar(ctx context.Context, id int32) (*domain.Car, error) {
	return s.store.Cars().GetByID(ctx, id)
}

func (s *carService) ListMyCars(ctx context.Context, companyUserID int32) ([]domain.Car, error) {
	company, err := s.store.Companies().GetByUserID(ctx, companyUserID)
	if err != nil {
		return nil, err
	}
	return s.store.Cars().ListByCompany(ctx, company.ID)
}

// UpdatePricing changes the catalog rate going forward. Rentals already
// booked keep the rate snapshotted at booking time.
func (s *carService) UpdatePricing(ctx context.Context, companyUserID, carID int32, pricePerHour, commercialValue decimal.Decimal) (*domain.Car, error) {
	if pricePerHour.IsNegative() || commercialValue.IsNegative() {
		return nil, domain.Errorf(domain.KindInvalidInput, "car prices must not be negative")
	}
	company, err := s.store.Companies().GetByUserID(ctx, companyUserID)
	if err != nil {
		return nil, err
	}

	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.KindInternal, err, "begin unit of work")
	}
	defer uow.Rollback()

	car, err := uow.Cars().GetByIDForUpdate(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car.CompanyID != company.ID {
		return nil, domain.Errorf(domain.KindUnauthorized,
			"car %d does not belong to company %d", car.ID, company.ID)
	}
	car.PricePerHour = pricePerHour
	car.CommercialValue = commercialValue
	if err := uow.Cars().Update(ctx, car); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, domain.WrapError(domain.KindInternal, err, "commit pricing update")
	}
	return car, nil
}
