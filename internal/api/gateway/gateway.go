// Package gateway serves the gRPC services as JSON over HTTP under /v1.
package gateway

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	flightsapi "github.com/Domenick1991/skyreserve/internal/api/flights_service_api"
	paymentsapi "github.com/Domenick1991/skyreserve/internal/api/payments_service_api"
	reservationsapi "github.com/Domenick1991/skyreserve/internal/api/reservations_service_api"
	"github.com/Domenick1991/skyreserve/internal/api/rpc"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type route struct {
	method  string
	pattern string
	service string
	rpc     string
	// body is the request field the JSON body lands in; "*" merges it
	// into the top level and "" ignores it.
	body    string
	numeric []string
}

var routes = []route{
	{method: http.MethodGet, pattern: "/v1/flights", service: flightsapi.ServiceName, rpc: flightsapi.MethodListFlights},
	{method: http.MethodPost, pattern: "/v1/flights", service: flightsapi.ServiceName, rpc: flightsapi.MethodAddFlight, body: "*"},
	{method: http.MethodGet, pattern: "/v1/flights/{id}", service: flightsapi.ServiceName, rpc: flightsapi.MethodGetFlight},
	{method: http.MethodGet, pattern: "/v1/search/flights", service: flightsapi.ServiceName, rpc: flightsapi.MethodSearchFlights,
		numeric: []string{"min_price_cents", "max_price_cents", "seats"}},

	{method: http.MethodPost, pattern: "/v1/reservations", service: reservationsapi.ServiceName, rpc: reservationsapi.MethodCreateReservation, body: "*"},
	{method: http.MethodGet, pattern: "/v1/reservations", service: reservationsapi.ServiceName, rpc: reservationsapi.MethodFindReservations},
	{method: http.MethodGet, pattern: "/v1/reservations/{id}", service: reservationsapi.ServiceName, rpc: reservationsapi.MethodGetReservation},
	{method: http.MethodDelete, pattern: "/v1/reservations/{id}", service: reservationsapi.ServiceName, rpc: reservationsapi.MethodDiscardReservation},
	{method: http.MethodPost, pattern: "/v1/reservations/{id}/travelers", service: reservationsapi.ServiceName, rpc: reservationsapi.MethodAddTraveler, body: "traveler"},
	{method: http.MethodDelete, pattern: "/v1/reservations/{id}/travelers/{traveler_id}", service: reservationsapi.ServiceName, rpc: reservationsapi.MethodRemoveTraveler},
	{method: http.MethodPost, pattern: "/v1/reservations/{id}/confirm", service: reservationsapi.ServiceName, rpc: reservationsapi.MethodConfirmReservation, body: "*"},
	{method: http.MethodPost, pattern: "/v1/reservations/{id}/cancel", service: reservationsapi.ServiceName, rpc: reservationsapi.MethodCancelReservation},
	{method: http.MethodGet, pattern: "/v1/stats/reservations", service: reservationsapi.ServiceName, rpc: reservationsapi.MethodReservationStats},

	{method: http.MethodPost, pattern: "/v1/payments", service: paymentsapi.ServiceName, rpc: paymentsapi.MethodCharge, body: "*"},
	{method: http.MethodGet, pattern: "/v1/payments", service: paymentsapi.ServiceName, rpc: paymentsapi.MethodListPayments},
	{method: http.MethodGet, pattern: "/v1/payments/{id}", service: paymentsapi.ServiceName, rpc: paymentsapi.MethodGetPayment},
	{method: http.MethodPost, pattern: "/v1/payments/{id}/refund", service: paymentsapi.ServiceName, rpc: paymentsapi.MethodRefund},
	{method: http.MethodGet, pattern: "/v1/stats/payments", service: paymentsapi.ServiceName, rpc: paymentsapi.MethodPaymentStats},
}

// Register binds every route on mux to a unary call over conn.
func Register(mux *runtime.ServeMux, conn grpc.ClientConnInterface) error {
	for _, rt := range routes {
		if err := mux.HandlePath(rt.method, rt.pattern, handler(mux, conn, rt)); err != nil {
			return fmt.Errorf("register %s %s: %w", rt.method, rt.pattern, err)
		}
	}
	return nil
}

func handler(mux *runtime.ServeMux, conn grpc.ClientConnInterface, rt route) runtime.HandlerFunc {
	fullMethod := rpc.FullMethod(rt.service, rt.rpc)
	return func(w http.ResponseWriter, req *http.Request, pathParams map[string]string) {
		inbound, outbound := runtime.MarshalerForRequest(mux, req)

		ctx, err := runtime.AnnotateContext(req.Context(), mux, req, fullMethod, runtime.WithHTTPPathPattern(rt.pattern))
		if err != nil {
			runtime.HTTPError(req.Context(), mux, outbound, w, req, err)
			return
		}

		in, err := buildRequest(inbound, req, pathParams, rt)
		if err != nil {
			runtime.HTTPError(ctx, mux, outbound, w, req, status.Error(codes.InvalidArgument, err.Error()))
			return
		}

		var md runtime.ServerMetadata
		out := new(structpb.Struct)
		if err := conn.Invoke(ctx, fullMethod, in, out, grpc.Header(&md.HeaderMD), grpc.Trailer(&md.TrailerMD)); err != nil {
			runtime.HTTPError(ctx, mux, outbound, w, req, err)
			return
		}
		ctx = runtime.NewServerMetadataContext(ctx, md)
		runtime.ForwardResponseMessage(ctx, mux, outbound, w, req, out)
	}
}

// buildRequest merges body, query and path parameters into one struct.
// Path parameters win over query parameters, which win over the body.
func buildRequest(inbound runtime.Marshaler, req *http.Request, pathParams map[string]string, rt route) (*structpb.Struct, error) {
	in := &structpb.Struct{Fields: map[string]*structpb.Value{}}

	if rt.body != "" && req.Body != nil {
		body := new(structpb.Struct)
		if err := inbound.NewDecoder(req.Body).Decode(body); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode body: %w", err)
		}
		if rt.body == "*" {
			for k, v := range body.GetFields() {
				in.Fields[k] = v
			}
		} else {
			in.Fields[rt.body] = structpb.NewStructValue(body)
		}
	}

	for key, values := range req.URL.Query() {
		if len(values) == 0 {
			continue
		}
		v, err := queryValue(rt, key, values[0])
		if err != nil {
			return nil, err
		}
		in.Fields[key] = v
	}

	for key, value := range pathParams {
		in.Fields[key] = structpb.NewStringValue(value)
	}
	return in, nil
}

func queryValue(rt route, key, raw string) (*structpb.Value, error) {
	for _, n := range rt.numeric {
		if n != key {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", key, err)
		}
		return structpb.NewNumberValue(f), nil
	}
	return structpb.NewStringValue(raw), nil
}
