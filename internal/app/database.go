package app

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"
	"time"

	sqldriver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/registrapos/registra/config"
)

const mysqlTLSKey = "registra"

// getDatabase opens the relational store for the configured type. Managed
// MySQL deployments ship their CA as PEM content in the environment; it is
// staged into a certificate pool and registered with the driver before the
// pool is opened.
func getDatabase(cfg config.DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Type {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name, time.Local.String())
		dialector = postgres.Open(dsn)
	case "mysql", "":
		tlsParam := ""
		if cfg.SslCa != "" {
			if err := registerMysqlTLS(cfg.SslCa); err != nil {
				return nil, err
			}
			tlsParam = "&tls=" + mysqlTLSKey
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local%s",
			cfg.User, cfg.Passwd, cfg.Host, cfg.Port, cfg.Name, tlsParam)
		dialector = mysql.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported database type %s", cfg.Type)
	}

	logLevel := gormlogger.Warn
	if cfg.Debug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "database pool")
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.IdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.IdleConn)
	}

	// connectivity check before the server starts taking requests
	if err := sqlDB.Ping(); err != nil {
		return nil, errors.Wrap(err, "database ping")
	}
	return db, nil
}

// registerMysqlTLS builds a root CA pool from PEM content and registers it
// with the MySQL driver. The content may carry literal \n escapes when it
// comes in through a single-line environment variable.
func registerMysqlTLS(caContent string) error {
	pem := strings.ReplaceAll(caContent, `\n`, "\n")

	// keep a staged copy on disk for operators to inspect
	if tmp, err := os.CreateTemp("", "registra-ca-*.pem"); err == nil {
		_, _ = tmp.WriteString(pem)
		_ = tmp.Close()
		zap.L().Info("staged database CA certificate", zap.String("path", tmp.Name()))
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM([]byte(pem)) {
		return errors.New("invalid database CA certificate")
	}
	return sqldriver.RegisterTLSConfig(mysqlTLSKey, &tls.Config{RootCAs: pool})
}
