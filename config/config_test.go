package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Creova-Group/Creova-sub000/pool"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
pool:
  owner: "0x00000000000000000000000000000000000000a1"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, common.HexToAddress("0x00000000000000000000000000000000000000a1"), cfg.Owner())

	params := cfg.PoolParams()
	assert.Equal(t, uint64(pool.DefaultFundingFeeBps), params.FundingFeeBps)
	assert.Equal(t, pool.Ether(5).Dec(), params.KYCFundingThreshold.Dec())
	assert.Equal(t, pool.Ether(10).Dec(), params.KYCWithdrawThreshold.Dec())
	assert.Equal(t, pool.DefaultQuarterLength, params.QuarterLength)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: ":9090"
data_dir: /var/lib/creova
pool:
  owner: "0x00000000000000000000000000000000000000a1"
  voters:
    - "0x00000000000000000000000000000000000000b1"
    - "0x00000000000000000000000000000000000000b2"
  verified_creators:
    - "0x00000000000000000000000000000000000000c1"
  funding_fee_bps: 300
  kyc_funding_threshold_wei: "1000000000000000000"
  resubmit_window: 48h
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "/var/lib/creova", cfg.DataDir)
	assert.Len(t, cfg.VoterAddresses(), 2)
	assert.Len(t, cfg.VerifiedCreatorAddresses(), 1)

	params := cfg.PoolParams()
	assert.Equal(t, uint64(300), params.FundingFeeBps)
	assert.Equal(t, pool.Ether(1).Dec(), params.KYCFundingThreshold.Dec())
	assert.Equal(t, 48*time.Hour, params.ResubmitWindow)

	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	logger.Sync()
}

func TestLoadRejectsBadConfig(t *testing.T) {
	_, err := Load(writeConfig(t, `{}`))
	assert.ErrorContains(t, err, "pool.owner is required")

	_, err = Load(writeConfig(t, `
pool:
  owner: not-an-address
`))
	assert.ErrorContains(t, err, "not a hex address")

	_, err = Load(writeConfig(t, `
pool:
  owner: "0x00000000000000000000000000000000000000a1"
  kyc_funding_threshold_wei: "five"
`))
	assert.ErrorContains(t, err, "kyc_funding_threshold_wei")
}
