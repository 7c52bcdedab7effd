package anchor

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Contract method selectors, first four bytes of the Keccak-256 hash of the
// canonical signature.
var (
	selectorIssue  = crypto.Keccak256([]byte("issueCertificate(bytes32,string)"))[:4]
	selectorRevoke = crypto.Keccak256([]byte("revokeCertificate(bytes32,string)"))[:4]
)

const anchorGasLimit = 200_000

// EthereumAnchorer writes fingerprints to a registry contract over JSON-RPC.
type EthereumAnchorer struct {
	client   *ethclient.Client
	key      *ecdsa.PrivateKey
	from     common.Address
	contract common.Address
	chainID  *big.Int

	mu sync.Mutex // serializes nonce assignment
}

// NewEthereum connects to the given RPC endpoint and prepares an anchorer
// that signs transactions with privateKeyHex.
func NewEthereum(ctx context.Context, rpcURL, privateKeyHex, contractAddr string, chainID int64) (*EthereumAnchorer, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial anchor rpc: %w", err)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("parse anchor key: %w", err)
	}
	if !common.IsHexAddress(contractAddr) {
		client.Close()
		return nil, fmt.Errorf("invalid anchor contract address %q", contractAddr)
	}
	return &EthereumAnchorer{
		client:   client,
		key:      key,
		from:     crypto.PubkeyToAddress(key.PublicKey),
		contract: common.HexToAddress(contractAddr),
		chainID:  big.NewInt(chainID),
	}, nil
}

func (a *EthereumAnchorer) AnchorIssue(ctx context.Context, fingerprint, offchainRef string) error {
	data, err := encodeCall(selectorIssue, fingerprint, offchainRef)
	if err != nil {
		return err
	}
	return a.submit(ctx, data)
}

func (a *EthereumAnchorer) AnchorRevoke(ctx context.Context, fingerprint, reason string) error {
	data, err := encodeCall(selectorRevoke, fingerprint, reason)
	if err != nil {
		return err
	}
	return a.submit(ctx, data)
}

// Close releases the underlying RPC connection.
func (a *EthereumAnchorer) Close() {
	a.client.Close()
}

func (a *EthereumAnchorer) submit(ctx context.Context, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	nonce, err := a.client.PendingNonceAt(ctx, a.from)
	if err != nil {
		return fmt.Errorf("fetch nonce: %w", err)
	}
	gasPrice, err := a.client.SuggestGasPrice(ctx)
	if err != nil {
		return fmt.Errorf("fetch gas price: %w", err)
	}

	tx := types.NewTransaction(nonce, a.contract, big.NewInt(0), anchorGasLimit, gasPrice, data)
	signed, err := types.SignTx(tx, types.NewEIP155Signer(a.chainID), a.key)
	if err != nil {
		return fmt.Errorf("sign anchor tx: %w", err)
	}
	if err := a.client.SendTransaction(ctx, signed); err != nil {
		return fmt.Errorf("send anchor tx: %w", err)
	}
	return nil
}

// encodeCall ABI-encodes selector(bytes32, string). The fingerprint is a
// 0x-prefixed 32-byte hex string and becomes the bytes32 argument; the
// string argument is dynamically encoded after the two-word head.
func encodeCall(selector []byte, fingerprint, arg string) ([]byte, error) {
	fp := strings.TrimPrefix(fingerprint, "0x")
	hash := common.HexToHash("0x" + fp)
	if len(fp) != 64 {
		return nil, fmt.Errorf("fingerprint is not a 32-byte hex string: %q", fingerprint)
	}

	strBytes := []byte(arg)
	padded := len(strBytes)
	if rem := padded % 32; rem != 0 {
		padded += 32 - rem
	}

	data := make([]byte, 0, 4+32*3+padded)
	data = append(data, selector...)
	data = append(data, hash.Bytes()...)
	// Offset of the dynamic string argument, relative to the args block.
	data = append(data, common.LeftPadBytes(big.NewInt(64).Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(big.NewInt(int64(len(strBytes))).Bytes(), 32)...)
	data = append(data, strBytes...)
	data = append(data, make([]byte, padded-len(strBytes))...)
	return data, nil
}
