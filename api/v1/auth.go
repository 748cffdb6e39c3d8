package v1

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openshelf/openshelf/api/auth"
	"github.com/openshelf/openshelf/http/request"
	"github.com/openshelf/openshelf/http/response"
	"github.com/openshelf/openshelf/model"
	"github.com/openshelf/openshelf/util"
	"github.com/openshelf/openshelf/validator"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	signin := &model.UserSigninRequest{}
	if err := json.NewDecoder(r.Body).Decode(signin); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "malformed signin request"))
		return
	}

	user, err := h.store.GetUser(&model.FindUser{
		Username: &signin.Username,
	})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to find user"))
		return
	}
	if user == nil || user.RowStatus == model.Archived {
		response.Unauthorized(w, r)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(signin.Password)); err != nil {
		response.Unauthorized(w, r)
		return
	}

	var expireTime time.Time
	if signin.NeverExpire {
		// Set the expire time to 100 years.
		expireTime = time.Now().AddDate(100, 0, 0)
	} else {
		expireTime = time.Now().Add(auth.AccessTokenDuration)
	}
	if err := h.doSignIn(w, r, user, expireTime); err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to sign in"))
		return
	}
	if err := h.store.SetLastLogin(user.ID); err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to record last login"))
		return
	}

	response.OK(w, r, response.UserResponse(user))
}

func (h *Handler) doSignIn(w http.ResponseWriter, r *http.Request, user *model.User, expireTime time.Time) error {
	sSetting, err := h.store.GetOrUpsetSystemSecuritySetting()
	if err != nil {
		return errors.Wrap(err, "failed to get security setting")
	}
	accessToken, err := auth.GenerateAccessToken(user.Username, user.ID, expireTime, []byte(sSetting.JWTSecret))
	if err != nil {
		return errors.Wrap(err, "failed to generate access token")
	}
	if err := h.store.UpsetAccessTokenToStore(user, accessToken, "user signin"); err != nil {
		return errors.Wrap(err, "failed to store access token")
	}

	cookieExp := time.Now().Add(auth.CookieExpDuration)
	setTokenCookie(w, r, auth.AccessTokenCookieName, accessToken, cookieExp)
	return nil
}

// setTokenCookie sets the token to the cookie.
func setTokenCookie(w http.ResponseWriter, r *http.Request, name, token string, expiration time.Time) {
	attributes := buildAccessTokenCookie(r, name, token, expiration)
	w.Header().Set("Set-Cookie", attributes)
}

func buildAccessTokenCookie(r *http.Request, name, accessToken string, expiration time.Time) string {
	attributes := []string{
		name + "=" + accessToken,
		"Path=/",
		"Expires=" + expiration.Format(time.RFC1123),
		"HttpOnly",
	}
	origin := r.Header.Get("Origin")
	if u, err := url.Parse(origin); err == nil && u.Scheme == "https" {
		attributes = append(attributes, "SameSite=None", "Secure")
	} else {
		attributes = append(attributes, "SameSite=Strict")
	}
	return strings.Join(attributes, "; ")
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	generalSetting, err := h.store.GetSystemGeneralSetting()
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to get general setting"))
		return
	}
	if generalSetting != nil && generalSetting.DisableSignup {
		response.Forbidden(w, r)
		return
	}

	signup := &model.UserSignupRequest{}
	if err := json.NewDecoder(r.Body).Decode(signup); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "malformed signup request"))
		return
	}
	if err := validator.ValidateSignupRequest(h.store, signup); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(signup.Password), bcrypt.DefaultCost)
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to hash password"))
		return
	}

	create := &model.User{
		Username:     signup.Username,
		Nickname:     signup.Nickname,
		Email:        signup.Email,
		PasswordHash: string(passwordHash),
		Role:         model.RoleMember,
	}

	existedUsers, err := h.store.ListUsers(&model.FindUser{})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to list users"))
		return
	}
	// The first account on a fresh installation becomes the host.
	if len(existedUsers) == 0 {
		create.Role = model.RoleHost
	}

	if signup.Name != "" && create.Role == model.RoleMember {
		member, err := h.registerMember(signup)
		if err != nil {
			response.ServerError(w, r, errors.Wrap(err, "failed to create member record"))
			return
		}
		create.MemberID = member.ID
	}

	user, err := h.store.CreateUser(create)
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to create user"))
		return
	}

	if err := h.doSignIn(w, r, user, time.Now().Add(auth.AccessTokenDuration)); err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to sign in"))
		return
	}

	response.Created(w, r, response.UserResponse(user))
}

func (h *Handler) registerMember(signup *model.UserSignupRequest) (*model.Member, error) {
	registerNumber, err := h.store.NextRegisterNumber()
	if err != nil {
		return nil, err
	}
	return h.store.CreateMember(&model.Member{
		RegisterNumber: registerNumber,
		Name:           signup.Name,
		Email:          signup.Email,
		Phone:          signup.Phone,
		Class:          signup.Class,
		Status:         model.MembershipActive,
	})
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	// Expire the cookie; the stored token keeps working until it ages
	// out of the user's token list.
	setTokenCookie(w, r, auth.AccessTokenCookieName, "", time.Unix(0, 0))
	response.NoContent(w, r)
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		response.Unauthorized(w, r)
		return
	}
	user, err := h.store.GetUser(&model.FindUser{ID: &userID})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to find user"))
		return
	}
	if user == nil {
		response.NotFound(w, r)
		return
	}
	response.OK(w, r, response.UserResponse(user))
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(&model.FindUser{})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to list users"))
		return
	}
	response.OK(w, r, response.UserListResponse(users))
}

func (h *Handler) archiveUser(w http.ResponseWriter, r *http.Request) {
	userID := request.RouteInt32Param(r, "id")
	user, err := h.store.GetUser(&model.FindUser{ID: &userID})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to find user"))
		return
	}
	if user == nil {
		response.NotFound(w, r)
		return
	}
	if user.Role == model.RoleHost {
		response.Conflict(w, r, errors.New("the host account cannot be archived"))
		return
	}
	if err := h.store.ArchiveUser(userID); err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to archive user"))
		return
	}
	response.NoContent(w, r)
}

func (h *Handler) listOwnLoans(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		response.Unauthorized(w, r)
		return
	}
	user, err := h.store.GetUser(&model.FindUser{ID: &userID})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to find user"))
		return
	}
	if user == nil {
		response.NotFound(w, r)
		return
	}
	if user.MemberID == 0 {
		response.OK(w, r, []loanView{})
		return
	}
	loans, err := h.store.ListCirculations(&model.FindCirculation{MemberID: &user.MemberID})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to list loans"))
		return
	}
	response.OK(w, r, buildLoanViews(loans, time.Now()))
}

func currentUserID(r *http.Request) (int32, error) {
	raw := request.GetUserID(r)
	if raw == "" {
		return 0, errors.New("no authenticated user")
	}
	return util.ConvertStringToInt32(raw)
}
