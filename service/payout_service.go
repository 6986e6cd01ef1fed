package service

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mat_airdrop/config"
)

var (
	ErrNotConfigured      = errors.New("payout gateway not configured")
	ErrInvalidDestination = errors.New("invalid destination address")
	ErrSubmission         = errors.New("transaction submission failed")
	ErrReverted           = errors.New("transaction reverted on chain")
	ErrConfirmTimeout     = errors.New("confirmation timed out")
)

// ERC20 selectors used by the payout pipeline.
var (
	selDecimals = common.FromHex("0x313ce567") // decimals()
	selTransfer = common.FromHex("0xa9059cbb") // transfer(address,uint256)
)

// PayoutService sends MAT from the operator address as a single ERC20
// transfer per call. One broadcast attempt, no retry; transfers are
// serialized so concurrent calls cannot race the operator nonce.
type PayoutService struct {
	client           *ethclient.Client
	privateKey       *ecdsa.PrivateKey
	from             common.Address
	token            common.Address
	gasPrice         *big.Int
	gasLimitFallback uint64
	confirmTimeout   time.Duration
	logger           *zap.Logger

	mu         sync.Mutex
	configured bool
}

func NewPayoutService(cfg *config.Config, logger *zap.Logger) (*PayoutService, error) {
	s := &PayoutService{
		gasPrice:         new(big.Int).Mul(big.NewInt(cfg.GasPriceGwei), big.NewInt(1e9)),
		gasLimitFallback: cfg.GasLimitFallback,
		confirmTimeout:   cfg.ConfirmTimeout,
		logger:           logger,
	}

	if cfg.TokenAddress == "" || cfg.PrivateKey == "" || cfg.PayoutFrom == "" {
		logger.Warn("payout gateway not configured, withdrawals disabled")
		return s, nil
	}
	if !common.IsHexAddress(cfg.TokenAddress) {
		return nil, fmt.Errorf("invalid MAT_TOKEN_ADDRESS: %s", cfg.TokenAddress)
	}
	if !common.IsHexAddress(cfg.PayoutFrom) {
		return nil, fmt.Errorf("invalid PAYOUT_FROM_ADDRESS: %s", cfg.PayoutFrom)
	}

	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	s.client = client
	s.privateKey = privateKey
	s.from = common.HexToAddress(cfg.PayoutFrom)
	s.token = common.HexToAddress(cfg.TokenAddress)
	s.configured = true
	return s, nil
}

func (s *PayoutService) Configured() bool { return s.configured }

// ToMinorUnits converts a human-readable token amount to the integer
// minor-unit quantity, rounding down.
func ToMinorUnits(amount decimal.Decimal, decimals int) *big.Int {
	return amount.Shift(int32(decimals)).Floor().BigInt()
}

// Transfer sends amount MAT to dest and blocks until the transaction is
// mined or the confirmation timeout elapses. Returns the tx hash.
func (s *PayoutService) Transfer(ctx context.Context, dest string, amount decimal.Decimal) (string, error) {
	if !s.configured {
		return "", ErrNotConfigured
	}
	if !common.IsHexAddress(dest) {
		return "", ErrInvalidDestination
	}
	to := common.HexToAddress(dest)

	// One in-flight transfer at a time per operator address.
	s.mu.Lock()
	defer s.mu.Unlock()

	tokenDecimals, err := s.fetchDecimals(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: decimals: %v", ErrSubmission, err)
	}
	value := ToMinorUnits(amount, tokenDecimals)

	data := append(append(append([]byte{}, selTransfer...),
		common.LeftPadBytes(to.Bytes(), 32)...),
		common.LeftPadBytes(value.Bytes(), 32)...)

	nonce, err := s.client.PendingNonceAt(ctx, s.from)
	if err != nil {
		return "", fmt.Errorf("%w: nonce: %v", ErrSubmission, err)
	}

	gasLimit := s.gasLimitFallback
	est, err := s.client.EstimateGas(ctx, ethereum.CallMsg{
		From:     s.from,
		To:       &s.token,
		GasPrice: s.gasPrice,
		Data:     data,
	})
	if err == nil {
		gasLimit = est + est/5
	} else {
		s.logger.Warn("gas estimate failed, using fallback", zap.Error(err), zap.Uint64("gas_limit", gasLimit))
	}

	tx := types.NewTransaction(nonce, s.token, big.NewInt(0), gasLimit, s.gasPrice, data)

	chainID, err := s.client.NetworkID(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: chain id: %v", ErrSubmission, err)
	}
	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(chainID), s.privateKey)
	if err != nil {
		return "", fmt.Errorf("%w: sign: %v", ErrSubmission, err)
	}

	if err := s.client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	txHash := signedTx.Hash().Hex()
	s.logger.Info("payout broadcast",
		zap.String("tx_hash", txHash),
		zap.String("dest", dest),
		zap.String("amount", amount.String()))

	waitCtx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	defer cancel()
	receipt, err := bind.WaitMined(waitCtx, s.client, signedTx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s", ErrConfirmTimeout, txHash)
		}
		return "", fmt.Errorf("%w: wait mined: %v", ErrSubmission, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("%w: %s", ErrReverted, txHash)
	}
	return txHash, nil
}

// fetchDecimals reads the token's decimals() via a raw eth_call.
func (s *PayoutService) fetchDecimals(ctx context.Context) (int, error) {
	res, err := s.client.CallContract(ctx, ethereum.CallMsg{To: &s.token, Data: selDecimals}, nil)
	if err != nil {
		return 0, err
	}
	if len(res) == 0 {
		return 18, nil
	}
	if len(res) < 32 {
		return int(new(big.Int).SetBytes(res).Int64()), nil
	}
	return int(new(big.Int).SetBytes(res[len(res)-32:]).Int64()), nil
}
