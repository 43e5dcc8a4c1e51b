package download

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	httpMock "github.com/grabarr/grabarr/pkg/http/mocks"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestNewQbittorrentClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockHttp := httpMock.NewMockHTTPClient(ctrl)

	client := NewQbittorrentClient(mockHttp, "http", "localhost", "admin", "secret", 0)
	qbit, ok := client.(*QbittorrentClient)
	assert.True(t, ok)
	assert.Equal(t, "localhost", qbit.host)
	assert.NotNil(t, qbit.mutex)

	clientWithPort := NewQbittorrentClient(mockHttp, "http", "localhost", "admin", "secret", 8080)
	qbitWithPort, ok := clientWithPort.(*QbittorrentClient)
	assert.True(t, ok)
	assert.Equal(t, "localhost:8080", qbitWithPort.host)
}

func TestQbittorrentClient_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHttp := httpMock.NewMockHTTPClient(ctrl)
	client := NewQbittorrentClient(mockHttp, "http", "localhost", "admin", "secret", 8080)
	ctx := context.Background()

	loginCall := mockHttp.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/api/v2/auth/login", req.URL.Path)
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Set-Cookie": []string{"SID=abc123; path=/"}},
			Body:       io.NopCloser(bytes.NewBufferString("Ok.")),
		}, nil
	})

	body := `[{"hash":"c0ffee","name":"some.show.s01","state":"uploading","progress":1,"added_on":1756500000}]`
	listCall := mockHttp.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/api/v2/torrents/info", req.URL.Path)
		cookie, err := req.Cookie("SID")
		assert.NoError(t, err)
		assert.Equal(t, "abc123", cookie.Value)
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
		}, nil
	})

	gomock.InOrder(loginCall, listCall)

	statuses, err := client.List(ctx, "c0ffee")
	assert.NoError(t, err)
	assert.Len(t, statuses, 1)
	assert.Equal(t, "c0ffee", statuses[0].Hash)
	assert.True(t, statuses[0].IsUploading())
	assert.False(t, statuses[0].IsPaused())
}

func TestQbittorrentClient_RelogsInOnForbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHttp := httpMock.NewMockHTTPClient(ctrl)
	client := NewQbittorrentClient(mockHttp, "http", "localhost", "admin", "secret", 8080)
	ctx := context.Background()

	login := func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/api/v2/auth/login", req.URL.Path)
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Set-Cookie": []string{"SID=fresh; path=/"}},
			Body:       io.NopCloser(bytes.NewBufferString("Ok.")),
		}, nil
	}

	first := mockHttp.EXPECT().Do(gomock.Any()).DoAndReturn(login)
	forbidden := mockHttp.EXPECT().Do(gomock.Any()).Return(&http.Response{
		StatusCode: http.StatusForbidden,
		Body:       io.NopCloser(bytes.NewBufferString("Forbidden")),
	}, nil)
	second := mockHttp.EXPECT().Do(gomock.Any()).DoAndReturn(login)
	retried := mockHttp.EXPECT().Do(gomock.Any()).Return(&http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString("[]")),
	}, nil)

	gomock.InOrder(first, forbidden, second, retried)

	statuses, err := client.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestQbittorrentClient_NoHashesIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// no expectations set: pausing or removing nothing must not hit the api
	mockHttp := httpMock.NewMockHTTPClient(ctrl)
	client := NewQbittorrentClient(mockHttp, "http", "localhost", "admin", "secret", 8080)
	ctx := context.Background()

	assert.NoError(t, client.Pause(ctx))
	assert.NoError(t, client.Resume(ctx))
	assert.NoError(t, client.Remove(ctx, true))
}

func TestStatusStates(t *testing.T) {
	assert.True(t, Status{State: "pausedUP"}.IsPaused())
	assert.True(t, Status{State: "stoppedDL"}.IsPaused())
	assert.False(t, Status{State: "downloading"}.IsPaused())
	assert.True(t, Status{State: "uploading"}.IsUploading())
	assert.False(t, Status{State: "stalledUP"}.IsUploading())
}
