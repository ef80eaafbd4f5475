package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ciquest/internal/domain/entity"
	domainerrors "ciquest/internal/domain/errors"
	"ciquest/internal/domain/service"

	"github.com/pkg/errors"
)

// Login authenticates with email and password and returns the profile
// and token pair. The returned tokens are NOT installed on the client;
// the session layer does that.
func (c *Client) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	var out struct {
		User    map[string]any `json:"user"`
		Access  string         `json:"access"`
		Refresh string         `json:"refresh"`
	}

	payload := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login/", nil, payload, &out); err != nil {
		var apiErr *domainerrors.APIResponseError
		if errors.As(err, &apiErr) && apiErr.HTTPCode() == http.StatusUnauthorized {
			return nil, domainerrors.ErrInvalidCredentials.WrapMessage(apiErr.Details())
		}

		return nil, err
	}

	return &service.LoginResult{
		User:    entity.Profile(out.User),
		Access:  out.Access,
		Refresh: out.Refresh,
	}, nil
}

// LoginWithGoogle exchanges a Google token for a session. Only the
// provided token fields are sent.
func (c *Client) LoginWithGoogle(ctx context.Context, idToken, accessToken string) (*service.LoginResult, error) {
	if idToken == "" && accessToken == "" {
		return nil, errors.New("a Google id token or access token is required")
	}

	payload := map[string]string{}
	if idToken != "" {
		payload["id_token"] = idToken
	}
	if accessToken != "" {
		payload["access_token"] = accessToken
	}

	var out struct {
		User    map[string]any `json:"user"`
		Access  string         `json:"access"`
		Refresh string         `json:"refresh"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/login/google/", nil, payload, &out); err != nil {
		return nil, err
	}

	return &service.LoginResult{
		User:    entity.Profile(out.User),
		Access:  out.Access,
		Refresh: out.Refresh,
	}, nil
}

// RegisterUser creates an account and returns the new profile.
func (c *Client) RegisterUser(ctx context.Context, username, email, password string) (entity.Profile, error) {
	var out map[string]any

	payload := map[string]string{"username": username, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/users/", nil, payload, &out); err != nil {
		return nil, err
	}

	return entity.Profile(out), nil
}

// FetchMe returns the authenticated user's profile.
func (c *Client) FetchMe(ctx context.Context) (entity.Profile, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/api/me/", nil, nil, &out); err != nil {
		return nil, err
	}

	return entity.Profile(out), nil
}

// Logout revokes the refresh token on the server. Without a refresh
// token there is nothing to revoke and the call is a no-op.
func (c *Client) Logout(ctx context.Context) error {
	_, refresh := c.tokens()
	if refresh == "" {
		return nil
	}

	return c.do(ctx, http.MethodPost, "/api/logout/", nil, map[string]string{"refresh": refresh}, nil)
}

type storeDTO struct {
	ID            json.Number `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Lat           *float64    `json:"lat"`
	Lon           *float64    `json:"lon"`
	Distance      *float64    `json:"distance"`
	Tags          []string    `json:"tags"`
	MainImage     string      `json:"main_image"`
	Phone         string      `json:"phone"`
	Website       string      `json:"website"`
	Instagram     string      `json:"instagram"`
	BusinessHours string      `json:"business_hours"`
	IsFeatured    bool        `json:"is_featured"`
	Priority      int         `json:"priority"`
	UpdatedAt     *string     `json:"updated_at"`
}

// FetchStores lists approved stores. When loc is set the server
// includes straight-line distances in km.
func (c *Client) FetchStores(ctx context.Context, loc *service.LatLon) ([]*entity.Store, error) {
	query := url.Values{}
	if loc != nil {
		query.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
		query.Set("lon", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	}

	var out []storeDTO
	if err := c.do(ctx, http.MethodGet, "/api/stores/", query, nil, &out); err != nil {
		return nil, err
	}

	stores := make([]*entity.Store, 0, len(out))
	for _, dto := range out {
		stores = append(stores, &entity.Store{
			ID:            dto.ID.String(),
			Name:          dto.Name,
			Description:   dto.Description,
			Lat:           dto.Lat,
			Lon:           dto.Lon,
			DistanceKm:    dto.Distance,
			Tags:          dto.Tags,
			MainImage:     dto.MainImage,
			Phone:         dto.Phone,
			Website:       dto.Website,
			Instagram:     dto.Instagram,
			BusinessHours: dto.BusinessHours,
			IsFeatured:    dto.IsFeatured,
			Priority:      dto.Priority,
			UpdatedAt:     parseTimePtr(dto.UpdatedAt),
		})
	}

	return stores, nil
}

type couponDTO struct {
	CouponID       json.Number `json:"coupon_id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	RequiredPoints *float64    `json:"required_points"`
	Type           string      `json:"type"`
	ExpiresAt      *string     `json:"expires_at"`
	StoreName      string      `json:"store_name"`
}

// FetchCoupons lists published coupons, optionally narrowed by store
// and type.
func (c *Client) FetchCoupons(ctx context.Context, q service.CouponQuery) ([]*entity.Coupon, error) {
	query := url.Values{}
	if q.StoreID != "" {
		query.Set("store_id", q.StoreID)
	}
	if q.Type != "" {
		query.Set("type", q.Type)
	}

	var out []couponDTO
	if err := c.do(ctx, http.MethodGet, "/api/coupons/", query, nil, &out); err != nil {
		return nil, err
	}

	coupons := make([]*entity.Coupon, 0, len(out))
	for _, dto := range out {
		coupons = append(coupons, &entity.Coupon{
			ID:             dto.CouponID.String(),
			Title:          dto.Title,
			Description:    dto.Description,
			Type:           dto.Type,
			StoreName:      dto.StoreName,
			RequiredPoints: dto.RequiredPoints,
			ExpiresAt:      parseTimePtr(dto.ExpiresAt),
		})
	}

	return coupons, nil
}

// FetchChallenges lists published challenges as raw records; the
// challenge store owns their normalization.
func (c *Client) FetchChallenges(ctx context.Context, storeID string) ([]map[string]any, error) {
	query := url.Values{}
	if storeID != "" {
		query.Set("store_id", storeID)
	}

	var out []map[string]any
	if err := c.do(ctx, http.MethodGet, "/api/challenges/", query, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

type noticeDTO struct {
	NoticeID json.Number `json:"notice_id"`
	Title    string      `json:"title"`
	BodyMD   string      `json:"body_md"`
	BodyHTML string      `json:"body_html"`
	Target   string      `json:"target"`
	StartAt  string      `json:"start_at"`
	EndAt    string      `json:"end_at"`
}

// FetchNotices lists notices currently in their publication window.
// target "user" additionally returns user-targeted notices when the
// caller presents a valid API key.
func (c *Client) FetchNotices(ctx context.Context, target string) ([]*entity.Notice, error) {
	query := url.Values{}
	if target != "" {
		query.Set("target", target)
	}

	var out []noticeDTO
	if err := c.do(ctx, http.MethodGet, "/api/notices/", query, nil, &out); err != nil {
		return nil, err
	}

	notices := make([]*entity.Notice, 0, len(out))
	for _, dto := range out {
		notices = append(notices, &entity.Notice{
			ID:       dto.NoticeID.String(),
			Title:    dto.Title,
			BodyMD:   dto.BodyMD,
			BodyHTML: dto.BodyHTML,
			Target:   dto.Target,
			StartAt:  parseTime(dto.StartAt),
			EndAt:    parseTime(dto.EndAt),
		})
	}

	return notices, nil
}

type stampRewardDTO struct {
	StampThreshold    int          `json:"stamp_threshold"`
	RewardType        string       `json:"reward_type"`
	RewardCouponID    *json.Number `json:"reward_coupon_id"`
	RewardCouponTitle string       `json:"reward_coupon_title"`
	RewardServiceDesc string       `json:"reward_service_desc"`
}

type stampSettingDTO struct {
	Exists     bool             `json:"exists"`
	StoreID    json.Number      `json:"store_id"`
	StoreName  string           `json:"store_name"`
	MaxStamps  int              `json:"max_stamps"`
	Rewards    []stampRewardDTO `json:"rewards"`
	UserStamps *struct {
		StampsCount int  `json:"stamps_count"`
		RewardGiven bool `json:"reward_given"`
	} `json:"user_stamps"`
}

// FetchStampSetting returns the store's stamp-card configuration, or a
// setting with Exists false when the store runs no card.
func (c *Client) FetchStampSetting(ctx context.Context, storeID string) (*entity.StampSetting, error) {
	query := url.Values{}
	query.Set("store_id", storeID)

	var out stampSettingDTO
	if err := c.do(ctx, http.MethodGet, "/api/stamp-settings/", query, nil, &out); err != nil {
		return nil, err
	}

	setting := &entity.StampSetting{
		Exists:    out.Exists,
		StoreID:   out.StoreID.String(),
		StoreName: out.StoreName,
		MaxStamps: out.MaxStamps,
	}
	for _, reward := range out.Rewards {
		setting.Rewards = append(setting.Rewards, entity.StampReward{
			StampThreshold:    reward.StampThreshold,
			RewardType:        reward.RewardType,
			RewardCouponID:    numberOrEmpty(reward.RewardCouponID),
			RewardCouponTitle: reward.RewardCouponTitle,
			RewardServiceDesc: reward.RewardServiceDesc,
		})
	}
	if out.UserStamps != nil {
		setting.UserStamps = &entity.StampStatus{
			StampsCount: out.UserStamps.StampsCount,
			RewardGiven: out.UserStamps.RewardGiven,
		}
	}

	return setting, nil
}

// ClearChallenge asks the server to clear a challenge. The server
// verifies the QR code, the geofence and the daily limits.
func (c *Client) ClearChallenge(ctx context.Context, input service.ChallengeClearInput) (*service.ChallengeClearOutcome, error) {
	payload := map[string]any{
		"challenge_id": input.ChallengeID,
		"qr_code":      input.QRCode,
		"lat":          input.Lat,
		"lon":          input.Lon,
	}

	var out struct {
		ChallengeID       json.Number  `json:"challenge_id"`
		Status            string       `json:"status"`
		ClearedAt         string       `json:"cleared_at"`
		RewardType        string       `json:"reward_type"`
		RewardPoints      int          `json:"reward_points"`
		RewardDetail      string       `json:"reward_detail"`
		RewardCouponID    *json.Number `json:"reward_coupon_id"`
		RewardCouponTitle string       `json:"reward_coupon_title"`
		RewardGranted     bool         `json:"reward_granted"`
		UserPoints        int          `json:"user_points"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/user-challenges/clear/", nil, payload, &out); err != nil {
		return nil, err
	}

	return &service.ChallengeClearOutcome{
		ChallengeID:       out.ChallengeID.String(),
		Status:            out.Status,
		ClearedAt:         out.ClearedAt,
		RewardType:        out.RewardType,
		RewardPoints:      out.RewardPoints,
		RewardDetail:      out.RewardDetail,
		RewardCouponID:    numberOrEmpty(out.RewardCouponID),
		RewardCouponTitle: out.RewardCouponTitle,
		RewardGranted:     out.RewardGranted,
		UserPoints:        out.UserPoints,
	}, nil
}

// UseCoupon redeems a coupon at the store identified by its QR code.
func (c *Client) UseCoupon(ctx context.Context, couponID, storeQR string) (*service.CouponUseOutcome, error) {
	payload := map[string]any{
		"coupon_id": couponID,
		"store_qr":  storeQR,
	}

	var out struct {
		CouponID    json.Number `json:"coupon_id"`
		CouponTitle string      `json:"coupon_title"`
		CouponType  string      `json:"coupon_type"`
		StoreID     json.Number `json:"store_id"`
		StoreName   string      `json:"store_name"`
		UsedAt      string      `json:"used_at"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/user-coupons/use/", nil, payload, &out); err != nil {
		return nil, err
	}

	return &service.CouponUseOutcome{
		CouponID:    out.CouponID.String(),
		CouponTitle: out.CouponTitle,
		CouponType:  out.CouponType,
		StoreID:     out.StoreID.String(),
		StoreName:   out.StoreName,
		UsedAt:      out.UsedAt,
	}, nil
}

type couponUsageDTO struct {
	CouponID    json.Number `json:"coupon_id"`
	CouponTitle string      `json:"coupon_title"`
	CouponType  string      `json:"coupon_type"`
	StoreID     json.Number `json:"store_id"`
	StoreName   string      `json:"store_name"`
	UserID      json.Number `json:"user_id"`
	Username    string      `json:"username"`
	UsedAt      string      `json:"used_at"`
}

func (dto couponUsageDTO) toEntity() *entity.CouponUsage {
	return &entity.CouponUsage{
		CouponID:    dto.CouponID.String(),
		CouponTitle: dto.CouponTitle,
		CouponType:  dto.CouponType,
		StoreID:     dto.StoreID.String(),
		StoreName:   dto.StoreName,
		UserID:      dto.UserID.String(),
		Username:    dto.Username,
		UsedAt:      parseTime(dto.UsedAt),
	}
}

// FetchUserCouponHistory lists the authenticated user's redemptions,
// newest first.
func (c *Client) FetchUserCouponHistory(ctx context.Context) ([]*entity.CouponUsage, error) {
	var out []couponUsageDTO
	if err := c.do(ctx, http.MethodGet, "/api/user-coupons/history/", nil, nil, &out); err != nil {
		return nil, err
	}

	usages := make([]*entity.CouponUsage, 0, len(out))
	for _, dto := range out {
		usages = append(usages, dto.toEntity())
	}

	return usages, nil
}

// FetchStoreCouponHistory lists redemptions at one store, newest first.
func (c *Client) FetchStoreCouponHistory(ctx context.Context, storeID string) ([]*entity.CouponUsage, error) {
	query := url.Values{}
	query.Set("store_id", storeID)

	var out []couponUsageDTO
	if err := c.do(ctx, http.MethodGet, "/api/store-coupons/history/", query, nil, &out); err != nil {
		return nil, err
	}

	usages := make([]*entity.CouponUsage, 0, len(out))
	for _, dto := range out {
		usages = append(usages, dto.toEntity())
	}

	return usages, nil
}

// ScanStamp records a stamp at the store identified by its QR code.
// Scans inside the cooldown window fail; detect them with
// IsStampCooldown.
func (c *Client) ScanStamp(ctx context.Context, storeQR string, loc service.LatLon) (*service.StampScanOutcome, error) {
	payload := map[string]any{
		"store_qr": storeQR,
		"lat":      loc.Lat,
		"lon":      loc.Lon,
	}

	var out struct {
		StoreID     json.Number `json:"store_id"`
		StoreName   string      `json:"store_name"`
		StampsCount int         `json:"stamps_count"`
		MaxStamps   int         `json:"max_stamps"`
		RewardGiven bool        `json:"reward_given"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/stamps/scan/", nil, payload, &out); err != nil {
		return nil, err
	}

	return &service.StampScanOutcome{
		StoreID:     out.StoreID.String(),
		StoreName:   out.StoreName,
		StampsCount: out.StampsCount,
		MaxStamps:   out.MaxStamps,
		RewardGiven: out.RewardGiven,
	}, nil
}

// numberOrEmpty renders a JSON number, mapping null and absent to "".
func numberOrEmpty(n *json.Number) string {
	if n == nil {
		return ""
	}

	return n.String()
}

func parseTime(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func parseTimePtr(value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}

	parsed, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil
	}

	return &parsed
}
