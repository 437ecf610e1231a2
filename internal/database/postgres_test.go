package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_GetDSN(t *testing.T) {
	cfg := Config{
		Host:     "db.internal",
		Port:     5433,
		User:     "unithub",
		Password: "secret",
		Database: "unithub",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=unithub password=secret dbname=unithub sslmode=require",
		cfg.GetDSN())
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, Close(nil))
}
