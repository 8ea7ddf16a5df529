package config_test

import (
	"testing"

	"github.com/okian/perfscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8501")
			convey.So(cfg.ModelPath, convey.ShouldEqual, "employee_performance_model.json")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "console")
			convey.So(cfg.LogFile, convey.ShouldBeEmpty)
			convey.So(cfg.PredictionCacheSize, convey.ShouldEqual, 1024)
			convey.So(cfg.RateLimitRPS, convey.ShouldEqual, 20)
			convey.So(cfg.RateLimitBurst, convey.ShouldEqual, 40)
			convey.So(cfg.DisplayLocale, convey.ShouldEqual, "en")
		})

		convey.Convey("Then the defaults validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
