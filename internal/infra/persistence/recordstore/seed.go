package recordstore

import (
	"elogbook/internal/domain/entity"
	"elogbook/internal/domain/service"

	"github.com/pkg/errors"
)

type seedData struct {
	accounts []entity.Account
	visits   []entity.VisitEntry
}

// newSeed returns the built-in dataset with visits dated relative to today.
func newSeed(today, yesterday, twoDaysAgo string, hasher service.PasswordHasher) (*seedData, error) {
	accounts := []entity.Account{
		{ID: 1, Username: "admin", Password: "admin123", FullName: "Juan Dela Cruz", Role: entity.RoleAdmin, Status: entity.StatusActive},
		{ID: 2, Username: "maria", Password: "staff123", FullName: "Maria Santos", Role: entity.RoleStaff, Status: entity.StatusActive},
		{ID: 3, Username: "pedro", Password: "staff123", FullName: "Pedro Reyes", Role: entity.RoleStaff, Status: entity.StatusActive},
		{ID: 4, Username: "ana", Password: "staff123", FullName: "Ana Garcia", Role: entity.RoleStaff, Status: entity.StatusInactive},
	}

	if hasher != nil && hasher.Scheme() != service.SecretSchemePlain {
		for i := range accounts {
			hash, err := hasher.Hash(accounts[i].Password)
			if err != nil {
				return nil, errors.Wrap(err, "hash seed secret")
			}
			accounts[i].Password = hash
		}
	}

	visits := []entity.VisitEntry{
		{ID: 1, FirstName: "Roberto", LastName: "Mendoza", Address: "Brgy. San Isidro, Legazpi City", ContactNumber: "09171234567", Purpose: entity.PurposeInquiry, Date: today, TimeIn: "08:30", TimeOut: "09:15", LoggedBy: 2},
		{ID: 2, FirstName: "Carmela", LastName: "Villanueva", Address: "Brgy. Sagpon, Legazpi City", ContactNumber: "09189876543", Purpose: entity.PurposeRequest, Date: today, TimeIn: "09:00", TimeOut: "10:00", LoggedBy: 2},
		{ID: 3, FirstName: "Eduardo", LastName: "Bautista", Address: "Brgy. Bonot, Legazpi City", ContactNumber: "09201112233", Purpose: entity.PurposeComplaint, Date: today, TimeIn: "10:15", TimeOut: "", LoggedBy: 3},
		{ID: 4, FirstName: "Lorna", LastName: "Aquino", Address: "Brgy. Rawis, Legazpi City", ContactNumber: "09334455667", Purpose: entity.PurposeFollowUp, Date: today, TimeIn: "11:00", TimeOut: "11:30", LoggedBy: 2},
		{ID: 5, FirstName: "Alfredo", LastName: "Ramos", Address: "Brgy. Taysan, Legazpi City", ContactNumber: "09221234567", Purpose: entity.PurposeCourtesyCall, Date: yesterday, TimeIn: "08:00", TimeOut: "08:45", LoggedBy: 3},
		{ID: 6, FirstName: "Gloria", LastName: "Santos", Address: "Brgy. Centro, Legazpi City", ContactNumber: "09157654321", Purpose: entity.PurposeInquiry, Date: yesterday, TimeIn: "09:30", TimeOut: "10:00", LoggedBy: 2},
		{ID: 7, FirstName: "Ricardo", LastName: "Torres", Address: "Brgy. Penaranda, Legazpi City", ContactNumber: "09281239876", Purpose: entity.PurposeRequest, Date: twoDaysAgo, TimeIn: "14:00", TimeOut: "14:45", LoggedBy: 3},
		{ID: 8, FirstName: "Teresa", LastName: "Flores", Address: "Brgy. Bitano, Legazpi City", ContactNumber: "09461234568", Purpose: entity.PurposeOther, Date: twoDaysAgo, TimeIn: "15:00", TimeOut: "15:30", LoggedBy: 2},
	}

	return &seedData{accounts: accounts, visits: visits}, nil
}
