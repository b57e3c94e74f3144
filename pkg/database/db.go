package database

import (
	"Ninety/config"
	"Ninety/models"
	"Ninety/pkg/log"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DriverSQLite = "sqlite"

// NewDB 初始化数据库连接
func NewDB(conf *config.Config) *gorm.DB {
	db, err := Open(conf.MySQL)
	if err != nil {
		log.L.Fatal("failed to connect database", zap.Error(err))
	}

	log.L.Info("connect database success", zap.String("driver", conf.MySQL.Driver))
	return db
}

func Open(conf *config.MySQL) (*gorm.DB, error) {
	dialector := mysql.Open(conf.Dsn())
	if conf.Driver == DriverSQLite {
		// 写事务在 BEGIN 时即取写锁，并发写排队等待，行为接近 InnoDB 行锁
		dialector = sqlite.Open(conf.Database + "?_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL")
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if conf.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(conf.MaxOpen)
	}
	if conf.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(conf.MaxIdle)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// Migrate 建表，并写入初始管理员
func Migrate(db *gorm.DB, admins []string) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return err
	}
	for _, id := range admins {
		// 环境变量未设置时展开为空串，不能算作管理员
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		admin := models.Admin{LineUserID: id, AdminName: "Admin"}
		if err := db.Where("line_user_id = ?", id).FirstOrCreate(&admin).Error; err != nil {
			return err
		}
	}
	return nil
}
