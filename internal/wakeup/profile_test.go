package wakeup_test

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loganpetree/homesellphotography/internal/mocks"
	"github.com/loganpetree/homesellphotography/internal/wakeup"
)

func TestPrepareProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fsys := mocks.NewMockFileSystem(ctrl)
	fsys.EXPECT().MkdirTemp("", "chrome-wake-migrate-").Return("/tmp/chrome-wake-migrate-1", nil)
	fsys.EXPECT().Exists("/home/me/Default/Cookies").Return(true, nil)
	fsys.EXPECT().Exists("/home/me/Default/Login Data").Return(true, nil)
	fsys.EXPECT().Exists("/home/me/Default/Local State").Return(false, nil)
	fsys.EXPECT().Exists("/home/me/Default/Preferences").Return(false, errors.New("permission denied"))
	fsys.EXPECT().ReadFile("/home/me/Default/Cookies").Return([]byte("cookies"), nil)
	fsys.EXPECT().ReadFile("/home/me/Default/Login Data").Return([]byte("login"), nil)
	fsys.EXPECT().WriteFile("/tmp/chrome-wake-migrate-1/Cookies", []byte("cookies"), fs.FileMode(0600)).Return(nil)
	fsys.EXPECT().WriteFile("/tmp/chrome-wake-migrate-1/Login Data", []byte("login"), fs.FileMode(0600)).Return(nil)

	dir, err := wakeup.PrepareProfile(fsys, "/home/me/Default")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/chrome-wake-migrate-1", dir)
}

func TestPrepareProfile_NoSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fsys := mocks.NewMockFileSystem(ctrl)
	fsys.EXPECT().MkdirTemp("", "chrome-wake-migrate-").Return("/tmp/p", nil)

	dir, err := wakeup.PrepareProfile(fsys, "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/p", dir)
}

func TestPrepareProfile_WriteFailureRemovesDir(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fsys := mocks.NewMockFileSystem(ctrl)
	fsys.EXPECT().MkdirTemp("", "chrome-wake-migrate-").Return("/tmp/p", nil)
	fsys.EXPECT().Exists("/src/Cookies").Return(true, nil)
	fsys.EXPECT().ReadFile("/src/Cookies").Return([]byte("c"), nil)
	fsys.EXPECT().WriteFile("/tmp/p/Cookies", []byte("c"), fs.FileMode(0600)).Return(errors.New("disk full"))
	fsys.EXPECT().RemoveAll("/tmp/p").Return(nil)

	_, err := wakeup.PrepareProfile(fsys, "/src")
	assert.Error(t, err)
}
