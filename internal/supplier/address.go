package supplier

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"florist-backend/internal/database"
	"florist-backend/internal/models"

	"gorm.io/gorm"
)

var ErrBadAddress = errors.New(`address must look like "City, Street, HouseNumber"`)

type Address struct {
	City   string
	Street string
	House  int
}

func ParseAddress(s string) (Address, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Address{}, ErrBadAddress
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return Address{}, ErrBadAddress
		}
	}
	house, err := strconv.Atoi(parts[2])
	if err != nil || house <= 0 {
		return Address{}, ErrBadAddress
	}
	return Address{City: parts[0], Street: parts[1], House: house}, nil
}

func shortName(city string) string {
	r := []rune(city)
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}

// ResolveAddress finds the house for a, creating the missing city, street
// and house along the way. New cities go into the default region.
func ResolveAddress(tx *gorm.DB, a Address) (*models.House, error) {
	var city models.City
	err := tx.Where("name = ?", a.City).First(&city).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var region models.Region
		if err := tx.Where(models.Region{Name: database.DefaultRegionName}).FirstOrCreate(&region).Error; err != nil {
			return nil, fmt.Errorf("default region: %w", err)
		}
		city = models.City{Name: a.City, ShortName: shortName(a.City), RegionID: &region.ID}
		if err := tx.Create(&city).Error; err != nil {
			return nil, fmt.Errorf("create city: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("find city: %w", err)
	}

	var street models.Street
	if err := tx.Where(models.Street{Name: a.Street, CityID: city.ID}).FirstOrCreate(&street).Error; err != nil {
		return nil, fmt.Errorf("street: %w", err)
	}

	var house models.House
	if err := tx.Where(models.House{Number: a.House, StreetID: street.ID}).FirstOrCreate(&house).Error; err != nil {
		return nil, fmt.Errorf("house: %w", err)
	}
	street.City = city
	house.Street = street
	return &house, nil
}
