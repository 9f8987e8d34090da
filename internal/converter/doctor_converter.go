package converter

import (
	"go-doctor-appointment/internal/delivery/dto"
	"go-doctor-appointment/internal/domain/entity"
	"go-doctor-appointment/internal/domain/slot"

	"github.com/google/uuid"
)

// DoctorProfileToResponse converts a DoctorProfile entity to DoctorResponse DTO.
// Email is only exposed to the admin and to the doctor itself.
func DoctorProfileToResponse(profile *entity.DoctorProfile, booked slot.BookedSlots, withEmail bool) *dto.DoctorResponse {
	if profile == nil {
		return nil
	}

	if booked == nil {
		booked = slot.BookedSlots{}
	}

	response := &dto.DoctorResponse{
		ID:          profile.UserID,
		Name:        profile.User.Name,
		Image:       profile.User.Image,
		Speciality:  profile.Speciality,
		Degree:      profile.Degree,
		Experience:  profile.Experience,
		About:       profile.About,
		Fees:        profile.Fees,
		Address:     AddressToResponse(profile.Address),
		Available:   profile.Available,
		SlotsBooked: booked,
		CreatedAt:   profile.CreatedAt,
	}
	if withEmail {
		response.Email = profile.User.Email
	}

	return response
}

// DoctorProfilesToResponses converts a slice of DoctorProfile entities to slice of DoctorResponse DTOs
func DoctorProfilesToResponses(profiles []entity.DoctorProfile, booked map[uuid.UUID]slot.BookedSlots, withEmail bool) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(profiles))
	for i := range profiles {
		responses[i] = *DoctorProfileToResponse(&profiles[i], booked[profiles[i].UserID], withEmail)
	}
	return responses
}

func AddressToResponse(address entity.Address) dto.AddressResponse {
	return dto.AddressResponse{
		Line1: address.Line1,
		Line2: address.Line2,
	}
}
