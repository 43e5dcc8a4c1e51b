package config

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/grabarr/grabarr/config/mocks"
	"github.com/spf13/viper"
	"go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	t.Run("fail to read in config", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cu := mocks.NewMockConfigUnmarshaler(ctrl)

		wantErr := errors.New("expected testing error")
		cu.EXPECT().ConfigFileUsed().Times(1).Return("fake-config.yaml")
		cu.EXPECT().ReadInConfig().Times(1).Return(wantErr)
		c, err := New(cu)
		if err == nil {
			t.Errorf("TestNew() err = %v, want %v", err, wantErr)
		}

		wantConfig := Config{}
		if !reflect.DeepEqual(c, wantConfig) {
			t.Errorf("TestNew() config = %v, want %v", c, wantConfig)
		}
	})

	t.Run("success with file", func(t *testing.T) {
		cu := viper.New()
		cu.SetConfigFile("./testing/config.yaml")
		c, err := New(cu)
		if err != nil {
			t.Errorf("TestNew() err = %v, want %v", err, nil)
		}

		wantConfig := Config{
			Jackett: Jackett{
				Scheme: "https",
				Host:   "my-jackett-host",
				APIKey: "my-jackett-api-key",
			},
			Qbit: Qbit{
				Scheme:   "http",
				Host:     "my-qbit-host",
				Username: "admin",
				Password: "hunter2",
			},
		}

		if !reflect.DeepEqual(c, wantConfig) {
			t.Errorf("TestNew() config = %+v, want %+v", c, wantConfig)
		}
	})

	t.Run("success without file", func(t *testing.T) {
		cu := viper.New()
		cu.SetConfigFile("")
		cu.SetDefault("jackett.scheme", "https")
		cu.SetDefault("engine.retentionDays", 14)
		c, err := New(cu)
		if err != nil {
			t.Errorf("TestNew() err = %v, want %v", err, nil)
		}

		wantConfig := Config{
			Jackett: Jackett{
				Scheme: "https",
			},
			Engine: Engine{
				RetentionDays: 14,
			},
		}

		if !reflect.DeepEqual(c, wantConfig) {
			t.Errorf("TestNew() config = %+v, want %+v", c, wantConfig)
		}
	})
}

func TestEngineRetention(t *testing.T) {
	e := Engine{RetentionDays: 14}
	if e.Retention() != 14*24*time.Hour {
		t.Errorf("Retention() = %v, want %v", e.Retention(), 14*24*time.Hour)
	}
}
