package converter

import (
	"go-doctor-appointment/internal/delivery/dto"
	"go-doctor-appointment/internal/domain/entity"
)

// PatientProfileToResponse merges the user row and the patient profile.
// An empty image falls back to defaultImage.
func PatientProfileToResponse(user *entity.User, profile *entity.PatientProfile, defaultImage string) *dto.PatientProfileResponse {
	if user == nil || profile == nil {
		return nil
	}

	image := user.Image
	if image == "" {
		image = defaultImage
	}

	return &dto.PatientProfileResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Image:       image,
		Phone:       profile.PhoneNumber,
		Address:     AddressToResponse(profile.Address),
		DateOfBirth: profile.DateOfBirth,
		Gender:      profile.Gender,
	}
}
