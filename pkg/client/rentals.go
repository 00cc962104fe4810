package client

import (
	"context"
	"net/http"

	"rentals/pkg/model"
)

// RentalsClient calls the rentals HTTP API. Failed calls return an *APIError.
type RentalsClient struct {
	api *HttpClient
}

func NewRentalsClient(baseURL string) *RentalsClient {
	return &RentalsClient{api: NewHttpClient(baseURL)}
}

// As returns a client authenticated with token.
func (c *RentalsClient) As(token string) *RentalsClient {
	return &RentalsClient{api: c.api.WithToken(token)}
}

func (c *RentalsClient) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	return call[model.User](ctx, c.api, http.MethodPost, "/api/v1/auth/signup", req, http.StatusCreated)
}

func (c *RentalsClient) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	req := &model.LoginRequest{Email: email, Password: password}
	return call[model.LoginResponse](ctx, c.api, http.MethodPost, "/api/v1/auth/login", req, http.StatusOK)
}

func (c *RentalsClient) Profile(ctx context.Context) (*model.User, error) {
	return call[model.User](ctx, c.api, http.MethodGet, "/api/v1/profile", nil, http.StatusOK)
}

func (c *RentalsClient) UpdateProfile(ctx context.Context, update *model.ProfileUpdate) (*model.User, error) {
	return call[model.User](ctx, c.api, http.MethodPatch, "/api/v1/profile", update, http.StatusOK)
}

func (c *RentalsClient) CreateProperty(ctx context.Context, req *model.PropertyRequest) (*model.Property, error) {
	return call[model.Property](ctx, c.api, http.MethodPost, "/api/v1/properties", req, http.StatusCreated)
}

func (c *RentalsClient) GetProperty(ctx context.Context, id string) (*model.Property, error) {
	return call[model.Property](ctx, c.api, http.MethodGet, "/api/v1/properties/id/"+id, nil, http.StatusOK)
}

func (c *RentalsClient) ListProperties(ctx context.Context) ([]*model.Property, error) {
	return list[model.Property](ctx, c.api, "/api/v1/properties")
}

func (c *RentalsClient) DeleteProperty(ctx context.Context, id string) error {
	_, err := call[struct{}](ctx, c.api, http.MethodDelete, "/api/v1/properties/id/"+id, nil, http.StatusNoContent)
	return err
}

func (c *RentalsClient) CreateBooking(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	return call[model.Booking](ctx, c.api, http.MethodPost, "/api/v1/bookings", req, http.StatusCreated)
}

func (c *RentalsClient) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	return call[model.Booking](ctx, c.api, http.MethodGet, "/api/v1/bookings/id/"+id, nil, http.StatusOK)
}

func (c *RentalsClient) MyBookings(ctx context.Context) ([]*model.Booking, error) {
	return list[model.Booking](ctx, c.api, "/api/v1/bookings/mine")
}

func (c *RentalsClient) PropertyBookings(ctx context.Context, propertyID string) ([]*model.Booking, error) {
	return list[model.Booking](ctx, c.api, "/api/v1/bookings/property/"+propertyID)
}

func (c *RentalsClient) UpdateBookingStatus(ctx context.Context, id, status string) (*model.Booking, error) {
	req := &model.BookingStatusUpdate{Status: status}
	return call[model.Booking](ctx, c.api, http.MethodPatch, "/api/v1/bookings/id/"+id+"/status", req, http.StatusOK)
}

func (c *RentalsClient) DeleteBooking(ctx context.Context, id string) error {
	_, err := call[struct{}](ctx, c.api, http.MethodDelete, "/api/v1/bookings/id/"+id, nil, http.StatusNoContent)
	return err
}

func (c *RentalsClient) CreateReview(ctx context.Context, req *model.ReviewRequest) (*model.Review, error) {
	return call[model.Review](ctx, c.api, http.MethodPost, "/api/v1/reviews", req, http.StatusCreated)
}

func (c *RentalsClient) MyReviews(ctx context.Context) ([]*model.Review, error) {
	return list[model.Review](ctx, c.api, "/api/v1/reviews/mine")
}

func (c *RentalsClient) PropertyReviews(ctx context.Context, propertyID string) ([]*model.Review, error) {
	return list[model.Review](ctx, c.api, "/api/v1/reviews/property/"+propertyID)
}

func call[T any](ctx context.Context, c *HttpClient, method, path string, body any, wantStatus int) (*T, error) {
	resp, err := c.request(ctx, method, path, body, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != wantStatus {
		return nil, GetAPIError(resp)
	}
	if wantStatus == http.StatusNoContent {
		return nil, nil
	}

	var envelope struct {
		Data T `json:"data"`
	}
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func list[T any](ctx context.Context, c *HttpClient, path string) ([]*T, error) {
	items, err := call[[]*T](ctx, c, http.MethodGet, path, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return *items, nil
}
