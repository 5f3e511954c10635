package cmd

import (
	"fmt"
	"strconv"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/xuperchain/ocnledger/kernel/engines/ocn/common"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/sigauth"
)

// SignParams 链下签名需要的操作参数
type SignParams struct {
	CountryCode string
	PartyID     string
	URL         string
	Name        string
	NewOwner    string
	NodeAddress string
	Provider    string
	User        string
	Permissions string
}

type SignCmd struct {
	BaseCmd
}

func GetSignCmd() *SignCmd {
	signCmdIns := new(SignCmd)

	// 定义命令行参数变量
	var (
		keyHex string
		params SignParams
	)

	signCmdIns.cmd = &cobra.Command{
		Use:   "sign <operation>",
		Short: "Sign the digest of a raw operation off-chain.",
		Long: "Sign the digest of a raw operation off-chain. Operations: register, updateInfo, " +
			"overwriteInfo, setNodeAddress, deregister, setApp, createAgreement.",
		Example:       "ocnledger sign register --key 0x... --country-code DE --party-id ABC --url https://node.de",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := crypto.HexToECDSA(strings.TrimPrefix(keyHex, "0x"))
			if err != nil {
				return fmt.Errorf("bad private key: %v", err)
			}
			digest, err := BuildDigest(args[0], &params)
			if err != nil {
				return err
			}
			sig, err := sigauth.SignDigest(digest, key)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "signer: %s\n", crypto.PubkeyToAddress(key.PublicKey).Hex())
			fmt.Fprintf(out, "digest: %s\n", digest.Hex())
			fmt.Fprintf(out, "v: %d\n", sig.V)
			fmt.Fprintf(out, "r: %s\n", hexutil.Encode(sig.R[:]))
			fmt.Fprintf(out, "s: %s\n", hexutil.Encode(sig.S[:]))
			fmt.Fprintf(out, "signature: %s\n", sigauth.FormatSignature(sig))
			return nil
		},
	}

	// 设置命令行参数并绑定变量
	flags := signCmdIns.cmd.Flags()
	flags.StringVarP(&keyHex, "key", "k", "", "hex encoded secp256k1 private key")
	flags.StringVar(&params.CountryCode, "country-code", "", "2 byte country code")
	flags.StringVar(&params.PartyID, "party-id", "", "3 byte party id")
	flags.StringVar(&params.URL, "url", "", "party or app url")
	flags.StringVar(&params.Name, "name", "", "app name")
	flags.StringVar(&params.NewOwner, "new-owner", "", "new owner address")
	flags.StringVar(&params.NodeAddress, "node-address", "", "operator node address")
	flags.StringVar(&params.Provider, "provider", "", "provider address")
	flags.StringVar(&params.User, "user", "", "user address")
	flags.StringVar(&params.Permissions, "permissions", "", "comma separated permission ids, eg: 1,2,3")

	return signCmdIns
}

var signOperations = map[string]bool{
	"register":                 true,
	sigauth.TagUpdateInfo:      true,
	sigauth.TagOverwriteInfo:   true,
	sigauth.TagSetNodeAddress:  true,
	sigauth.TagDeregister:      true,
	sigauth.TagSetApp:          true,
	sigauth.TagCreateAgreement: true,
}

// BuildDigest 按操作类型计算待签名摘要
func BuildDigest(operation string, p *SignParams) (ethcommon.Hash, error) {
	if !signOperations[operation] {
		return ethcommon.Hash{}, fmt.Errorf("unknown operation %s", operation)
	}

	switch operation {
	case sigauth.TagSetApp:
		provider, err := common.ParseSubject(p.Provider)
		if err != nil {
			return ethcommon.Hash{}, err
		}
		perms, err := ParsePermissions(p.Permissions)
		if err != nil {
			return ethcommon.Hash{}, err
		}
		return sigauth.SetAppDigest(provider, p.Name, p.URL, perms)
	case sigauth.TagCreateAgreement:
		user, err := common.ParseSubject(p.User)
		if err != nil {
			return ethcommon.Hash{}, err
		}
		provider, err := common.ParseIdentity(p.Provider)
		if err != nil {
			return ethcommon.Hash{}, err
		}
		return sigauth.CreateAgreementDigest(user, provider)
	}

	key, err := common.NewPartyKey([]byte(p.CountryCode), []byte(p.PartyID))
	if err != nil {
		return ethcommon.Hash{}, err
	}
	switch operation {
	case "register":
		return sigauth.RegisterDigest(key, p.URL)
	case sigauth.TagUpdateInfo:
		return sigauth.UpdateInfoDigest(key, p.URL)
	case sigauth.TagOverwriteInfo:
		newOwner, err := common.ParseIdentity(p.NewOwner)
		if err != nil {
			return ethcommon.Hash{}, err
		}
		return sigauth.OverwriteInfoDigest(key, newOwner, p.URL)
	case sigauth.TagSetNodeAddress:
		nodeAddress, err := common.ParseIdentity(p.NodeAddress)
		if err != nil {
			return ethcommon.Hash{}, err
		}
		return sigauth.SetNodeAddressDigest(key, nodeAddress)
	case sigauth.TagDeregister:
		return sigauth.DeregisterDigest(key)
	default:
		return ethcommon.Hash{}, fmt.Errorf("unknown operation %s", operation)
	}
}

// ParsePermissions 解析逗号分隔的权限列表
func ParsePermissions(s string) ([]uint64, error) {
	perms := []uint64{}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		n, err := strconv.ParseUint(item, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad permission %q: %v", item, err)
		}
		perms = append(perms, n)
	}
	return perms, nil
}
