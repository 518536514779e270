package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/photoshare/config"
	"github.com/d60-Lab/photoshare/internal/api/handler"
	"github.com/d60-Lab/photoshare/internal/model"
	"github.com/d60-Lab/photoshare/internal/repository"
	"github.com/d60-Lab/photoshare/internal/service"
	"github.com/d60-Lab/photoshare/pkg/token"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Post{}, &model.Like{}, &model.Follow{}))

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		Upload: config.UploadConfig{Dir: t.TempDir(), BaseURL: "/uploads", MaxSize: 5 * 1024 * 1024},
		Rate:   config.RateConfig{RPS: 1000, Burst: 1000},
		Admin:  config.AdminConfig{Email: "admin@photoshare.local", Password: "admin123"},
	}
	codec := token.NewCodec("test-secret", time.Hour)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)
	relSvc := service.NewRelationshipService(followRepo, nil)
	store, err := service.NewDiskStore(cfg.Upload.Dir, cfg.Upload.BaseURL)
	require.NoError(t, err)

	h := handler.NewHandler(
		service.NewAuthService(userRepo, codec),
		service.NewPostService(postRepo, likeRepo, nil),
		service.NewUserService(userRepo, relSvc),
		relSvc,
		service.NewAdminService(userRepo, postRepo),
		service.NewUploadService(store, cfg.Upload.MaxSize),
		cfg.Admin,
	)
	return NewRouter(cfg, h, codec)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func register(t *testing.T, r *gin.Engine, email, username string) map[string]interface{} {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"email": email, "password": "Sup3r!pass", "name": username, "username": username,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode(t, w)["user"].(map[string]interface{})
}

func login(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode(t, w)["token"].(string)
}

func TestRegisterLoginPostLikeScenario(t *testing.T) {
	r := newTestServer(t)

	user := register(t, r, "a@x.com", "alice")
	require.Equal(t, "a@x.com", user["email"])

	// 重复邮箱 / 重复用户名都是 400
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"email": "a@x.com", "password": "Sup3r!pass", "name": "x", "username": "other",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"email": "b@x.com", "password": "Sup3r!pass", "name": "x", "username": "alice",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	tok := login(t, r, "a@x.com", "Sup3r!pass")

	// 未带令牌 401
	w = doJSON(t, r, http.MethodGet, "/posts", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// 发帖
	w = doJSON(t, r, http.MethodPost, "/posts", tok, gin.H{"imageUrl": "http://img/1.png"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	post := decode(t, w)
	postID := post["id"].(string)

	// 点赞翻转：added → removed
	w = doJSON(t, r, http.MethodPost, "/posts/"+postID+"/like", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode(t, w)
	require.Equal(t, "liked", res["message"])
	require.EqualValues(t, 1, res["likes"])

	w = doJSON(t, r, http.MethodPost, "/posts/"+postID+"/like", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	res = decode(t, w)
	require.Equal(t, "unliked", res["message"])
	require.EqualValues(t, 0, res["likes"])

	// 未知帖子 404
	w = doJSON(t, r, http.MethodPost, "/posts/missing/like", tok, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// 帖子流最新在前
	w = doJSON(t, r, http.MethodGet, "/posts", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var posts []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	require.Equal(t, postID, posts[0]["id"])
}

func TestLoginFailureCodes(t *testing.T) {
	r := newTestServer(t)
	register(t, r, "a@x.com", "alice")

	w := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{"email": "nobody@x.com", "password": "Sup3r!pass"})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{"email": "a@x.com", "password": "Wrong!pass1"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{"email": "a@x.com"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFollowAndSearch(t *testing.T) {
	r := newTestServer(t)
	alice := register(t, r, "a@x.com", "alice")
	bob := register(t, r, "b@x.com", "bob")
	tok := login(t, r, "a@x.com", "Sup3r!pass")

	// 自关注 400
	w := doJSON(t, r, http.MethodPost, "/users/"+alice["id"].(string)+"/follow", tok, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/users/"+bob["id"].(string)+"/follow", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "followed", decode(t, w)["message"])

	// 公开用户卡片带粉丝数
	w = doJSON(t, r, http.MethodGet, "/users/"+bob["id"].(string), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	card := decode(t, w)
	require.EqualValues(t, 1, card["_count"].(map[string]interface{})["followers"])

	w = doJSON(t, r, http.MethodPost, "/users/"+bob["id"].(string)+"/follow", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "unfollowed", decode(t, w)["message"])

	// 搜索：空串 400，命中排除调用者
	w = doJSON(t, r, http.MethodGet, "/search?q=", tok, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/search?q=bob", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var hits []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hits))
	require.Len(t, hits, 1)
	require.Equal(t, "bob", hits[0]["username"])

	w = doJSON(t, r, http.MethodGet, "/search?q=alice", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hits))
	require.Empty(t, hits) // 只剩调用者自己，被排除
}

func TestProfileEndpoints(t *testing.T) {
	r := newTestServer(t)
	register(t, r, "a@x.com", "alice")
	tok := login(t, r, "a@x.com", "Sup3r!pass")

	w := doJSON(t, r, http.MethodPost, "/posts", tok, gin.H{"imageUrl": "http://img/1.png", "caption": "hi"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/profile/alice", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w)
	require.Equal(t, "alice", profile["username"])
	require.Len(t, profile["posts"], 1)

	w = doJSON(t, r, http.MethodGet, "/profile/ghost", tok, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// 更新资料换用户名并拿到新令牌
	w = doJSON(t, r, http.MethodPut, "/profile/update", tok, gin.H{"name": "Alice W", "username": "alice_w"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)
	newTok := updated["token"].(string)

	w = doJSON(t, r, http.MethodGet, "/profile/alice_w", newTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminFlow(t *testing.T) {
	r := newTestServer(t)
	alice := register(t, r, "a@x.com", "alice")
	aliceTok := login(t, r, "a@x.com", "Sup3r!pass")

	// 发帖加点赞，验证删除用户时的级联
	w := doJSON(t, r, http.MethodPost, "/posts", aliceTok, gin.H{"imageUrl": "http://img/1.png"})
	require.Equal(t, http.StatusOK, w.Code)
	postID := decode(t, w)["id"].(string)
	w = doJSON(t, r, http.MethodPost, "/posts/"+postID+"/like", aliceTok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 初始化管理员，幂等保护
	w = doJSON(t, r, http.MethodPost, "/admin/setup", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	adminID := decode(t, w)["admin"].(map[string]interface{})["id"].(string)
	w = doJSON(t, r, http.MethodPost, "/admin/setup", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	adminTok := login(t, r, "admin@photoshare.local", "admin123")

	// 普通用户进不了管理端
	w = doJSON(t, r, http.MethodGet, "/admin/users", aliceTok, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/admin/users", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, "/admin/posts", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 管理员账号受保护
	w = doJSON(t, r, http.MethodDelete, "/admin/users/"+adminID, adminTok, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/admin/users/"+alice["id"].(string), adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 用户与其帖子、点赞一并消失
	w = doJSON(t, r, http.MethodGet, "/profile/alice", adminTok, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, r, http.MethodGet, "/posts", adminTok, nil)
	var posts []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Empty(t, posts)
}

func TestUploadValidation(t *testing.T) {
	r := newTestServer(t)
	register(t, r, "a@x.com", "alice")
	tok := login(t, r, "a@x.com", "Sup3r!pass")

	makeReq := func(contentType string, payload []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="file"; filename="pic.png"`)
		hdr.Set("Content-Type", contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(payload)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := makeReq("image/png", []byte("png-bytes"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, decode(t, w)["url"], "/uploads/")

	w = makeReq("text/plain", []byte("hello"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/upload", tok, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
