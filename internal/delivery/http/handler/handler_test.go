package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"go-doctor-appointment/internal/delivery/dto"
	"go-doctor-appointment/internal/delivery/http/middleware"
	"go-doctor-appointment/internal/service"
	"go-doctor-appointment/pkg/jwt"
	"go-doctor-appointment/pkg/response"
	"go-doctor-appointment/pkg/validator"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asUser attaches verified claims the way the auth middleware does
func asUser(req *http.Request, role jwt.Role, id uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithClaims(req.Context(), &jwt.Claims{Role: role, UserID: id}))
}

func withPathID(req *http.Request, id string) *http.Request {
	return mux.SetURLVars(req, map[string]string{"id": id})
}

type formFile struct {
	contentType string
	content     []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, image *formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if image != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="avatar.png"`)
		header.Set("Content-Type", image.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(image.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

var testValidator = validator.NewValidator()

type mockAuthUsecase struct{ mock.Mock }

func (m *mockAuthUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	token, _ := args.Get(0).(*dto.TokenResponse)
	return token, args.Error(1)
}

func (m *mockAuthUsecase) LoginPatient(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	token, _ := args.Get(0).(*dto.TokenResponse)
	return token, args.Error(1)
}

func (m *mockAuthUsecase) LoginDoctor(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	token, _ := args.Get(0).(*dto.TokenResponse)
	return token, args.Error(1)
}

func (m *mockAuthUsecase) LoginAdmin(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	token, _ := args.Get(0).(*dto.TokenResponse)
	return token, args.Error(1)
}

func (m *mockAuthUsecase) Logout(ctx context.Context, claims *jwt.Claims) error {
	return m.Called(ctx, claims).Error(0)
}

type mockAppointmentUsecase struct{ mock.Mock }

func (m *mockAppointmentUsecase) Book(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest, idempotencyKey string) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, patientID, req, idempotencyKey)
	appointment, _ := args.Get(0).(*dto.AppointmentResponse)
	return appointment, args.Error(1)
}

func (m *mockAppointmentUsecase) ListForPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	args := m.Called(ctx, patientID)
	list, _ := args.Get(0).(*dto.AppointmentListResponse)
	return list, args.Error(1)
}

func (m *mockAppointmentUsecase) ListForDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.AppointmentListResponse, error) {
	args := m.Called(ctx, doctorID)
	list, _ := args.Get(0).(*dto.AppointmentListResponse)
	return list, args.Error(1)
}

func (m *mockAppointmentUsecase) ListAll(ctx context.Context) (*dto.AppointmentListResponse, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).(*dto.AppointmentListResponse)
	return list, args.Error(1)
}

func (m *mockAppointmentUsecase) CancelByPatient(ctx context.Context, patientID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, patientID, appointmentID)
	appointment, _ := args.Get(0).(*dto.AppointmentResponse)
	return appointment, args.Error(1)
}

func (m *mockAppointmentUsecase) CancelByDoctor(ctx context.Context, doctorID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, doctorID, appointmentID)
	appointment, _ := args.Get(0).(*dto.AppointmentResponse)
	return appointment, args.Error(1)
}

func (m *mockAppointmentUsecase) CancelByAdmin(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, appointmentID)
	appointment, _ := args.Get(0).(*dto.AppointmentResponse)
	return appointment, args.Error(1)
}

func (m *mockAppointmentUsecase) Complete(ctx context.Context, doctorID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, doctorID, appointmentID)
	appointment, _ := args.Get(0).(*dto.AppointmentResponse)
	return appointment, args.Error(1)
}

type mockDoctorProfileUsecase struct{ mock.Mock }

func (m *mockDoctorProfileUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest, image *service.ImageUpload) (*dto.DoctorResponse, error) {
	args := m.Called(ctx, req, image)
	doctor, _ := args.Get(0).(*dto.DoctorResponse)
	return doctor, args.Error(1)
}

func (m *mockDoctorProfileUsecase) ListDoctors(ctx context.Context, withEmail bool) (*dto.DoctorListResponse, error) {
	args := m.Called(ctx, withEmail)
	list, _ := args.Get(0).(*dto.DoctorListResponse)
	return list, args.Error(1)
}

func (m *mockDoctorProfileUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	args := m.Called(ctx, doctorID)
	doctor, _ := args.Get(0).(*dto.DoctorResponse)
	return doctor, args.Error(1)
}

func (m *mockDoctorProfileUsecase) GetDoctorSlots(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorSlotsResponse, error) {
	args := m.Called(ctx, doctorID)
	slots, _ := args.Get(0).(*dto.DoctorSlotsResponse)
	return slots, args.Error(1)
}

func (m *mockDoctorProfileUsecase) ChangeAvailability(ctx context.Context, doctorID uuid.UUID) (*dto.AvailabilityResponse, error) {
	args := m.Called(ctx, doctorID)
	availability, _ := args.Get(0).(*dto.AvailabilityResponse)
	return availability, args.Error(1)
}

func (m *mockDoctorProfileUsecase) GetProfile(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	args := m.Called(ctx, doctorID)
	doctor, _ := args.Get(0).(*dto.DoctorResponse)
	return doctor, args.Error(1)
}

func (m *mockDoctorProfileUsecase) UpdateProfile(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorProfileRequest, image *service.ImageUpload) (*dto.DoctorResponse, error) {
	args := m.Called(ctx, doctorID, req, image)
	doctor, _ := args.Get(0).(*dto.DoctorResponse)
	return doctor, args.Error(1)
}

type mockAuditLogUsecase struct{ mock.Mock }

func (m *mockAuditLogUsecase) GetAllAuditLogs(ctx context.Context, limit int) (*dto.AuditLogListResponse, error) {
	args := m.Called(ctx, limit)
	list, _ := args.Get(0).(*dto.AuditLogListResponse)
	return list, args.Error(1)
}

func (m *mockAuditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	args := m.Called(ctx, id)
	entry, _ := args.Get(0).(*dto.AuditLogResponse)
	return entry, args.Error(1)
}
