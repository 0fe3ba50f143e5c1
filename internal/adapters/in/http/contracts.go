package http

import (
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/application/usecases/queries"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/token"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/trip"
)

// Error is the JSON body returned with every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// IssueTokenRequest is the body of POST /api/v1/tokens.
type IssueTokenRequest struct {
	DriverID  string `json:"driverId"`
	VehicleID string `json:"vehicleId"`
	Station   string `json:"station"`
}

// ManualAllocateRequest is the body of POST /api/v1/allocations/manual.
type ManualAllocateRequest struct {
	TokenID  string `json:"tokenId"`
	DemandID string `json:"demandId"`
}

// SubmitDemandRequest is the body of POST /api/v1/demands. Priority is
// optional and defaults to NORMAL.
type SubmitDemandRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Quantity    int    `json:"quantity"`
	Priority    string `json:"priority"`
}

// AdvanceStepRequest is the body of POST /api/v1/trips/:id/steps. Step is
// the position the client believes it reached; Snapshot carries whatever
// per-step data it collected along the way.
type AdvanceStepRequest struct {
	Actor    string          `json:"actor"`
	Step     int             `json:"step"`
	Snapshot SnapshotPayload `json:"snapshot"`
}

// SnapshotPayload is the wire form of a trip's per-step payload. Every field
// is optional; absent fields leave already stored values untouched.
type SnapshotPayload struct {
	AcceptedAt             *time.Time        `json:"acceptedAt,omitempty"`
	ArrivedOriginAt        *time.Time        `json:"arrivedOriginAt,omitempty"`
	OriginPreReading       *string           `json:"originPreReading,omitempty"`
	OriginPostReading      *string           `json:"originPostReading,omitempty"`
	OriginPhotoRefs        []string          `json:"originPhotoRefs,omitempty"`
	OriginConfirmedBy      *string           `json:"originConfirmedBy,omitempty"`
	ArrivedDestinationAt   *time.Time        `json:"arrivedDestinationAt,omitempty"`
	DestinationPreReading  *string           `json:"destinationPreReading,omitempty"`
	DestinationPostReading *string           `json:"destinationPostReading,omitempty"`
	DestinationPhotoRefs   []string          `json:"destinationPhotoRefs,omitempty"`
	DestinationConfirmedBy *string           `json:"destinationConfirmedBy,omitempty"`
	CompletedAt            *time.Time        `json:"completedAt,omitempty"`
	Extra                  map[string]string `json:"extra,omitempty"`
}

func (p SnapshotPayload) toDomain() trip.Snapshot {
	return trip.Snapshot{
		AcceptedAt:             p.AcceptedAt,
		ArrivedOriginAt:        p.ArrivedOriginAt,
		OriginPreReading:       p.OriginPreReading,
		OriginPostReading:      p.OriginPostReading,
		OriginPhotoRefs:        p.OriginPhotoRefs,
		OriginConfirmedBy:      p.OriginConfirmedBy,
		ArrivedDestinationAt:   p.ArrivedDestinationAt,
		DestinationPreReading:  p.DestinationPreReading,
		DestinationPostReading: p.DestinationPostReading,
		DestinationPhotoRefs:   p.DestinationPhotoRefs,
		DestinationConfirmedBy: p.DestinationConfirmedBy,
		CompletedAt:            p.CompletedAt,
		Extra:                  p.Extra,
	}
}

func newSnapshotPayload(s trip.Snapshot) SnapshotPayload {
	return SnapshotPayload{
		AcceptedAt:             s.AcceptedAt,
		ArrivedOriginAt:        s.ArrivedOriginAt,
		OriginPreReading:       s.OriginPreReading,
		OriginPostReading:      s.OriginPostReading,
		OriginPhotoRefs:        s.OriginPhotoRefs,
		OriginConfirmedBy:      s.OriginConfirmedBy,
		ArrivedDestinationAt:   s.ArrivedDestinationAt,
		DestinationPreReading:  s.DestinationPreReading,
		DestinationPostReading: s.DestinationPostReading,
		DestinationPhotoRefs:   s.DestinationPhotoRefs,
		DestinationConfirmedBy: s.DestinationConfirmedBy,
		CompletedAt:            s.CompletedAt,
		Extra:                  s.Extra,
	}
}

// TokenResponse describes a freshly issued queue token.
type TokenResponse struct {
	ID             string     `json:"id"`
	TokenNo        string     `json:"tokenNo"`
	Station        string     `json:"station"`
	ServiceDay     string     `json:"serviceDay"`
	SequenceNumber int        `json:"sequenceNumber"`
	Status         string     `json:"status"`
	IssuedAt       time.Time  `json:"issuedAt"`
	AllocatedAt    *time.Time `json:"allocatedAt,omitempty"`
	TripID         *string    `json:"tripId,omitempty"`
}

func newTokenResponse(tkn *token.Token) TokenResponse {
	response := TokenResponse{
		ID:             tkn.ID().String(),
		TokenNo:        tkn.TokenNo().String(),
		Station:        tkn.Station().String(),
		ServiceDay:     tkn.ServiceDay().String(),
		SequenceNumber: tkn.SequenceNumber(),
		Status:         tkn.Status().String(),
		IssuedAt:       tkn.IssuedAt(),
		AllocatedAt:    tkn.AllocatedAt(),
	}
	if tripID := tkn.TripID(); tripID != nil {
		id := tripID.String()
		response.TripID = &id
	}
	return response
}

// CurrentTokenResponse describes the driver's active token and its queue
// position for today.
type CurrentTokenResponse struct {
	ID             string     `json:"id"`
	TokenNo        string     `json:"tokenNo"`
	Station        string     `json:"station"`
	SequenceNumber int        `json:"sequenceNumber"`
	Status         string     `json:"status"`
	IssuedAt       time.Time  `json:"issuedAt"`
	AllocatedAt    *time.Time `json:"allocatedAt,omitempty"`
	TripID         *string    `json:"tripId,omitempty"`
}

func newCurrentTokenResponse(result *queries.GetCurrentTokenQueryResponse) CurrentTokenResponse {
	response := CurrentTokenResponse{
		ID:             result.ID.String(),
		TokenNo:        result.TokenNo.String(),
		Station:        result.TokenNo.Station().String(),
		SequenceNumber: result.TokenNo.Sequence(),
		Status:         result.Status.String(),
		IssuedAt:       result.IssuedAt,
		AllocatedAt:    result.AllocatedAt,
	}
	if result.TripID != nil {
		id := result.TripID.String()
		response.TripID = &id
	}
	return response
}

// DemandCreatedResponse returns the server-assigned identifier of a newly
// filed demand.
type DemandCreatedResponse struct {
	ID string `json:"id"`
}

// AdvanceStepResponse reports the step the server holds after a sync. It can
// be ahead of the step the client sent when an earlier sync already landed.
type AdvanceStepResponse struct {
	TripID   string `json:"tripId"`
	Step     int    `json:"step"`
	StepName string `json:"stepName"`
}

// ResumeResponse is the recovery view of the driver's active trip: where the
// workflow actually stands and, mid-transfer, what was already captured.
type ResumeResponse struct {
	TripID       string                `json:"tripId"`
	Origin       string                `json:"origin"`
	Destination  string                `json:"destination"`
	Status       string                `json:"status"`
	Step         int                   `json:"step"`
	StepName     string                `json:"stepName"`
	Snapshot     SnapshotPayload       `json:"snapshot"`
	OpenTransfer *OpenTransferResponse `json:"openTransfer,omitempty"`
}

// OpenTransferResponse describes the transfer record still being worked.
type OpenTransferResponse struct {
	Point                string   `json:"point"`
	Station              string   `json:"station"`
	PreReading           *string  `json:"preReading,omitempty"`
	PostReading          *string  `json:"postReading,omitempty"`
	PhotoRefs            []string `json:"photoRefs,omitempty"`
	AwaitingConfirmation bool     `json:"awaitingConfirmation"`
}

func newResumeResponse(result *queries.GetResumeViewQueryResponse) ResumeResponse {
	response := ResumeResponse{
		TripID:      result.TripID.String(),
		Origin:      result.Origin.String(),
		Destination: result.Destination.String(),
		Status:      result.Status.String(),
		Step:        int(result.Step),
		StepName:    result.Step.String(),
		Snapshot:    newSnapshotPayload(result.Snapshot),
	}
	if result.OpenTransfer != nil {
		response.OpenTransfer = &OpenTransferResponse{
			Point:                result.OpenTransfer.Point.String(),
			Station:              result.OpenTransfer.Station.String(),
			PreReading:           result.OpenTransfer.PreReading,
			PostReading:          result.OpenTransfer.PostReading,
			PhotoRefs:            result.OpenTransfer.PhotoRefs,
			AwaitingConfirmation: result.OpenTransfer.AwaitingConfirmation,
		}
	}
	return response
}
