package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

type KeygenCmd struct {
	BaseCmd
}

func GetKeygenCmd() *KeygenCmd {
	keygenCmdIns := new(KeygenCmd)

	keygenCmdIns.cmd = &cobra.Command{
		Use:     "keygen",
		Short:   "Generate a new secp256k1 key pair.",
		Example: "ocnledger keygen",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := crypto.GenerateKey()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "private key: %s\naddress: %s\n",
				hexutil.Encode(crypto.FromECDSA(key)), crypto.PubkeyToAddress(key.PublicKey).Hex())
			return nil
		},
	}

	return keygenCmdIns
}
