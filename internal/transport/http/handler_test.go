package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/rijista/registrar/internal/adapter/ipfs"
	"github.com/rijista/registrar/internal/adapter/story"
	"github.com/rijista/registrar/internal/adapter/yakoa"
	"github.com/rijista/registrar/internal/config"
	"github.com/rijista/registrar/internal/service"
	"github.com/rijista/registrar/policy"
	"github.com/rijista/registrar/tests/helpers"
)

func newTestServer(t *testing.T) (*echo.Echo, *yakoa.MockProtector) {
	t.Helper()

	cfg := &config.Config{
		IPFSGateway:        "https://ipfs.io/ipfs/",
		SpgNftContract:     "0xcontract",
		ExplorerBaseURL:    "https://explorer.example",
		DefaultMintingFee:  1,
		CommercialRevShare: 5,
		SessionTTL:         24 * time.Hour,
		SweepEvery:         time.Minute,
		YakoaBackoff:       time.Millisecond,
	}

	policyEngine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	protector := yakoa.NewMockProtector()
	svc := service.New(helpers.NewTestMemoryStore(t),
		ipfs.NewUploader(ipfs.NewMockPinner()),
		story.NewService(story.NewMockRegistrar(), cfg.ExplorerBaseURL),
		protector,
		policyEngine,
		cfg)

	return NewServer(svc), protector
}

func postJSON(t *testing.T, e *echo.Echo, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

const step1Body = `{"step":1,"data":{
	"title":"Test Song","description":"A test song","createdAt":"1740005219",
	"creators":[{"name":"A","address":"0x1111111111111111111111111111111111111111","contributionPercent":100}],
	"image":"https://example.com/cover.jpeg",
	"mediaUrl":"https://example.com/track.mp3","mediaType":"audio/mpeg"}}`

func step2Body(id string) string {
	return fmt.Sprintf(`{"step":2,"data":{"registrationId":%q,
		"nftName":"Test Song NFT","nftDescription":"Ownership token",
		"nftImage":"https://example.com/cover.jpeg","animationUrl":"https://example.com/track.mp3",
		"attributes":[{"key":"Source","value":"Suno.com"}]}}`, id)
}

func stepIDBody(step int, id string) string {
	return fmt.Sprintf(`{"step":%d,"data":{"registrationId":%q}}`, step, id)
}

func TestWelcomeAndHealth(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome to the Story Protocol API Server")

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestRegisterStep1Success(t *testing.T) {
	e, _ := newTestServer(t)

	rec, resp := postJSON(t, e, "/api/register", step1Body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["success"])

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "IP metadata registered successfully", data["message"])
	assert.Regexp(t, `^REG-\d+$`, data["registrationId"])
	assert.NotEmpty(t, data["timestamp"])
}

func TestRegisterStep1ValidationError(t *testing.T) {
	e, _ := newTestServer(t)

	rec, resp := postJSON(t, e, "/api/register", `{"step":1,"data":{}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, float64(1), resp["step"])
	assert.NotEmpty(t, resp["error"])
}

func TestRegisterStep2RequiresRegistrationID(t *testing.T) {
	e, _ := newTestServer(t)

	rec, resp := postJSON(t, e, "/api/register", `{"step":2,"data":{"nftName":"x"}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Registration ID is required for this step", resp["error"])
}

func TestRegisterStep4WithoutPriorSteps(t *testing.T) {
	e, _ := newTestServer(t)

	rec, resp := postJSON(t, e, "/api/register", stepIDBody(4, "REG-404"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Missing data. Please complete all previous steps.", resp["error"])
	assert.Equal(t, float64(4), resp["step"])
}

func TestRegisterInvalidStep(t *testing.T) {
	e, _ := newTestServer(t)

	rec, resp := postJSON(t, e, "/api/register", `{"step":9,"data":{}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Invalid registration step", resp["error"])
}

func TestRegisterFullWorkflow(t *testing.T) {
	e, _ := newTestServer(t)

	_, resp := postJSON(t, e, "/api/register", step1Body)
	id := resp["data"].(map[string]interface{})["registrationId"].(string)

	rec, resp := postJSON(t, e, "/api/register", step2Body(id))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "NFT metadata registered successfully", resp["data"].(map[string]interface{})["message"])

	rec, resp = postJSON(t, e, "/api/register", stepIDBody(3, id))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Metadata uploaded to IPFS successfully", resp["data"].(map[string]interface{})["message"])

	rec, resp = postJSON(t, e, "/api/register", stepIDBody(4, id))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "IP Asset registered successfully", data["message"])
	assert.Equal(t, "0xmocktx", data["Transaction Hash"])
	assert.Equal(t, "0xmockipa", data["IPA ID"])
	assert.Equal(t, "https://explorer.example/ipa/0xmockipa", data["Explorer URL"])
	assert.Equal(t, []interface{}{"96"}, data["License Terms IDs"])

	// The workflow consumed the session; replaying step 4 must fail.
	rec, _ = postJSON(t, e, "/api/register", stepIDBody(4, id))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProtectSuccess(t *testing.T) {
	e, _ := newTestServer(t)

	body := `{"registrationId":"REG-1","registrationData":{
		"tokenId":"0xcontract:1","creatorId":"0x1111111111111111111111111111111111111111",
		"txHash":"0xabc","metadata":{"title":"Test Song"},
		"media":[{"media_id":"cover","url":"https://example.com/cover.jpeg"}]}}`

	rec, resp := postJSON(t, e, "/api/protect-yakoa", body)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "IP asset protected successfully", data["message"])
	assert.Equal(t, "0xcontract:1", data["yakoaTokenId"])
	assert.Equal(t, false, data["isFallback"])
	assert.Equal(t, float64(1), data["attempts"])
}

func TestProtectFallbackAfterConflicts(t *testing.T) {
	e, protector := newTestServer(t)
	protector.ConflictFirst = 100

	body := `{"registrationData":{"tokenId":"0xcontract:1","creatorId":"0xcreator"}}`
	rec, resp := postJSON(t, e, "/api/protect-yakoa", body)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "IP asset provisionally protected", data["message"])
	assert.Equal(t, true, data["isFallback"])
	assert.Equal(t, float64(5), data["attempts"])
}

func TestProtectMissingIdentifiers(t *testing.T) {
	e, _ := newTestServer(t)

	rec, resp := postJSON(t, e, "/api/protect-yakoa", `{"registrationData":{"tokenId":"0x1"}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "tokenId and creatorId are required", resp["error"])
}
