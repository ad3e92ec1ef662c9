package story

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testMintRequest() *MintRequest {
	return &MintRequest{
		SpgNftContract: "0xc32A8a0FF3beDDDa58393d022aF433e78739FAbc",
		LicenseTerms: LicenseTermsOptions{
			DefaultMintingFee:  1,
			CommercialRevShare: 5,
			WaitForTransaction: true,
		},
		IPMetadataURI:   "https://ipfs.io/ipfs/QmA",
		IPMetadataHash:  "0x1",
		NFTMetadataURI:  "https://ipfs.io/ipfs/QmB",
		NFTMetadataHash: "0x2",
	}
}

func TestClientMintAndRegister(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/ip-assets/mint-and-register" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var req MintRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.LicenseTerms.CommercialRevShare != 5 {
			t.Fatalf("unexpected license terms: %+v", req.LicenseTerms)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"txHash":"0xabc","ipId":"0xipa","licenseTermsIds":[96963606734903827252456892121822898575817800219043103145165402284474676193279]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	resp, err := client.MintAndRegister(context.Background(), testMintRequest())
	if err != nil {
		t.Fatalf("MintAndRegister failed: %v", err)
	}
	if resp.TxHash != "0xabc" || resp.IPAssetID != "0xipa" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	// License term ids beyond int64 range must survive decoding intact.
	if resp.LicenseTermsIDs[0].String() != "96963606734903827252456892121822898575817800219043103145165402284474676193279" {
		t.Fatalf("license terms id mangled: %s", resp.LicenseTermsIDs[0])
	}
}

func TestClientMintAndRegisterMissingResponseData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"txHash":"0xabc"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	_, err := client.MintAndRegister(context.Background(), testMintRequest())
	if !errors.Is(err, ErrMissingResponseData) {
		t.Fatalf("expected ErrMissingResponseData, got %v", err)
	}
}

func TestClientMintAndRegisterGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"error":"transaction reverted"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	if _, err := client.MintAndRegister(context.Background(), testMintRequest()); err == nil {
		t.Fatalf("expected error")
	}
}
