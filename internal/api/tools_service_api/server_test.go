package tools_service_api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/tools"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type MockInvoker struct {
	mock.Mock
}

func (m *MockInvoker) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	a := m.Called(ctx, name, args)
	return a.Get(0), a.Error(1)
}

func (m *MockInvoker) Tools() []tools.Tool {
	return m.Called().Get(0).([]tools.Tool)
}

// jsonArgs matches raw arguments semantically, protojson output is not byte stable.
func jsonArgs(want string) any {
	return mock.MatchedBy(func(raw json.RawMessage) bool {
		var got, exp any
		if json.Unmarshal(raw, &got) != nil || json.Unmarshal([]byte(want), &exp) != nil {
			return false
		}
		return assert.ObjectsAreEqual(exp, got)
	})
}

func startServer(t *testing.T, inv Invoker) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor(log)))
	RegisterToolsServiceServer(srv, NewServer(inv, log))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewClient(conn)
}

func TestServer_Invoke(t *testing.T) {
	inv := &MockInvoker{}
	client := startServer(t, inv)

	inv.On("Invoke", mock.Anything, tools.CheckSeatAvailability, jsonArgs(`{"flight_id":4,"cabin_class":"first"}`)).
		Return(map[string]any{"available_seats": 7}, nil).Once()

	args, err := structpb.NewStruct(map[string]any{"flight_id": 4, "cabin_class": "first"})
	require.NoError(t, err)

	resp, err := client.Invoke(context.Background(), tools.CheckSeatAvailability, args)

	require.NoError(t, err)
	assert.Equal(t, "application/json", resp.GetContentType())
	assert.JSONEq(t, `{"available_seats":7}`, string(resp.GetData()))
	inv.AssertExpectations(t)
}

func TestServer_InvokeErrorCodes(t *testing.T) {
	inv := &MockInvoker{}
	client := startServer(t, inv)

	cases := []struct {
		err  error
		code codes.Code
	}{
		{domain.ErrBookingNotFound, codes.NotFound},
		{domain.ErrSeatUnavailable, codes.FailedPrecondition},
		{domain.ErrAlreadyCancelled, codes.FailedPrecondition},
		{domain.ErrUnauthorized, codes.PermissionDenied},
		{domain.ErrValidation, codes.InvalidArgument},
		{domain.ErrPersistence, codes.Internal},
	}
	for _, tc := range cases {
		inv.On("Invoke", mock.Anything, "tool", mock.Anything).Return(nil, tc.err).Once()

		_, err := client.Invoke(context.Background(), "tool", nil)

		assert.Equal(t, tc.code, status.Code(err), tc.err.Error())
	}

	// Внутренняя ошибка не раскрывается клиенту
	inv.On("Invoke", mock.Anything, "tool", mock.Anything).Return(nil, domain.ErrPersistence).Once()
	_, err := client.Invoke(context.Background(), "tool", nil)
	assert.Equal(t, "internal error", status.Convert(err).Message())
}

func TestServer_InvokeRequiresToolName(t *testing.T) {
	client := startServer(t, &MockInvoker{})

	_, err := client.Invoke(context.Background(), "", nil)

	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServer_ListTools(t *testing.T) {
	inv := &MockInvoker{}
	client := startServer(t, inv)
	inv.On("Tools").Return([]tools.Tool{{Name: "get_airlines", Description: "Airlines", Arguments: []string{"country"}}})

	resp, err := client.ListTools(context.Background())

	require.NoError(t, err)
	assert.JSONEq(t, `{"tools_count":1,"tools":[{"name":"get_airlines","description":"Airlines","arguments":["country"]}]}`,
		string(resp.GetData()))
}

func TestGateway(t *testing.T) {
	inv := &MockInvoker{}
	client := startServer(t, inv)

	mux := runtime.NewServeMux()
	require.NoError(t, RegisterGateway(mux, client))

	inv.On("Invoke", mock.Anything, tools.GetBookingDetails, jsonArgs(`{"booking_reference":"AA100-0301-123"}`)).
		Return(map[string]any{"status": "confirmed"}, nil).Once()
	inv.On("Invoke", mock.Anything, tools.CancelFlightBooking, mock.Anything).
		Return(nil, domain.ErrUnauthorized).Once()

	// Тест 1: успешный вызов
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/tools/get_booking_details",
		strings.NewReader(`{"booking_reference":"AA100-0301-123"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"confirmed"}`, w.Body.String())

	// Тест 2: ошибка домена превращается в HTTP статус
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/tools/cancel_flight_booking",
		strings.NewReader(`{"booking_reference":"X","passenger_email":"x@y.z"}`)))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Тест 3: тело не является объектом
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/tools/get_airlines", strings.NewReader(`[1,2]`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	inv.AssertExpectations(t)
}
