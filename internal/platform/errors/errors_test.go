package errors

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	spb "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("apply: %w", New(CodeInvariantViolation, "card spent twice"))
	if !errors.Is(err, &Error{Code: CodeInvariantViolation}) {
		t.Fatal("expected wrapped error to match by code")
	}
	if errors.Is(err, &Error{Code: CodeNotFound}) {
		t.Fatal("expected code mismatch")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(errors.New("plain")); got != CodeUnknown {
		t.Fatalf("code = %s, want %s", got, CodeUnknown)
	}
	err := Wrap(CodeStorageCorrupted, "bad snapshot", errors.New("checksum"))
	if got := GetCode(err); got != CodeStorageCorrupted {
		t.Fatalf("code = %s, want %s", got, CodeStorageCorrupted)
	}
	if !IsCode(err, CodeStorageCorrupted) {
		t.Fatal("expected IsCode to match")
	}
	if errors.Unwrap(err) == nil {
		t.Fatal("expected cause")
	}
}

func TestFromRejectionCarriesRejectionCode(t *testing.T) {
	err := FromRejection("PROJECT_CONTROL_MISSING", "control requirement not met")
	if err.Code != CodeCommandRejected {
		t.Fatalf("code = %s, want %s", err.Code, CodeCommandRejected)
	}
	if err.Metadata["rejection_code"] != "PROJECT_CONTROL_MISSING" {
		t.Fatalf("rejection code = %q", err.Metadata["rejection_code"])
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeCommandInvalid, codes.InvalidArgument},
		{CodeCommandRejected, codes.FailedPrecondition},
		{CodeTurnNotYours, codes.FailedPrecondition},
		{CodeNotFound, codes.NotFound},
		{CodeStorageSeqGap, codes.DataLoss},
		{CodeInvariantViolation, codes.Internal},
		{CodeUnknown, codes.Internal},
	}
	for _, tt := range tests {
		if got := tt.code.GRPCCode(); got != tt.want {
			t.Fatalf("%s grpc code = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestGRPCStatusAttachesErrorInfo(t *testing.T) {
	st := Invariant("double ownership", map[string]string{"region_id": "chile"}).GRPCStatus()
	if st.Code() != codes.Internal {
		t.Fatalf("status code = %v, want %v", st.Code(), codes.Internal)
	}
	details := st.Details()
	if len(details) != 1 {
		t.Fatalf("details = %d, want 1", len(details))
	}
	info, ok := details[0].(*errdetails.ErrorInfo)
	if !ok {
		t.Fatalf("detail type = %T", details[0])
	}
	if info.Reason != string(CodeInvariantViolation) {
		t.Fatalf("reason = %s, want %s", info.Reason, CodeInvariantViolation)
	}
	if info.Metadata["region_id"] != "chile" {
		t.Fatalf("metadata region = %q", info.Metadata["region_id"])
	}
}

func TestGRPCStatusSurvivesWireEncoding(t *testing.T) {
	st := FromRejection("TURN_NOT_YOURS", "it is bruno's turn").GRPCStatus()
	raw, err := proto.Marshal(st.Proto())
	if err != nil {
		t.Fatalf("marshal status: %v", err)
	}
	var decoded spb.Status
	if err := proto.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	restored := status.FromProto(&decoded)
	if restored.Code() != st.Code() || restored.Message() != st.Message() {
		t.Fatalf("status = %v %q, want %v %q", restored.Code(), restored.Message(), st.Code(), st.Message())
	}
	details := restored.Details()
	if len(details) != 1 {
		t.Fatalf("details = %d, want 1", len(details))
	}
	info, ok := details[0].(*errdetails.ErrorInfo)
	if !ok || info.Reason != string(CodeCommandRejected) || info.Domain != Domain {
		t.Fatalf("detail = %+v, want %s error info", details[0], CodeCommandRejected)
	}
	if info.Metadata["rejection_code"] != "TURN_NOT_YOURS" {
		t.Fatalf("rejection code = %q, want TURN_NOT_YOURS", info.Metadata["rejection_code"])
	}
}
