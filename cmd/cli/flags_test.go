package cli

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestParseBlocksFlagDefault(t *testing.T) {
	parts, err := parseBlocksFlag(nil, 1000, 0)
	if err != nil {
		t.Fatalf("parseBlocksFlag(nil) err = %v", err)
	}
	if len(parts) == 0 {
		t.Fatal("parseBlocksFlag(nil) should fall back to the default 17000000:17000100 range")
	}
}

func TestParseBlocksFlagRangeAndExplicit(t *testing.T) {
	parts, err := parseBlocksFlag([]string{"100:103", "5,9"}, 1000, 0)
	if err != nil {
		t.Fatalf("parseBlocksFlag err = %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("parseBlocksFlag count = %d, want 2 (one range partition, one explicit-list partition)", len(parts))
	}
}

func TestParseBlocksFlagInvalidToken(t *testing.T) {
	if _, err := parseBlocksFlag([]string{"not-a-number"}, 1000, 0); err == nil {
		t.Fatal("parseBlocksFlag should reject a non-numeric token")
	}
}

func TestResolveRPCURLFromFlag(t *testing.T) {
	got, err := resolveRPCURL("localhost:8545")
	if err != nil {
		t.Fatalf("resolveRPCURL err = %v", err)
	}
	if got != "http://localhost:8545" {
		t.Fatalf("resolveRPCURL = %q, want http:// prefix added", got)
	}
}

func TestResolveRPCURLPreservesScheme(t *testing.T) {
	got, err := resolveRPCURL("https://example.com")
	if err != nil {
		t.Fatalf("resolveRPCURL err = %v", err)
	}
	if got != "https://example.com" {
		t.Fatalf("resolveRPCURL = %q, want scheme preserved", got)
	}
}

func TestResolveRPCURLMissing(t *testing.T) {
	t.Setenv("ETH_RPC_URL", "")
	if _, err := resolveRPCURL(""); err == nil {
		t.Fatal("resolveRPCURL should fail when neither --rpc nor $ETH_RPC_URL is set")
	}
}

func TestSplitColumnsFlag(t *testing.T) {
	got := splitColumnsFlag([]string{"a,b", " c "})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("splitColumnsFlag = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("splitColumnsFlag[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitColumnsFlagEmptyIsNil(t *testing.T) {
	if got := splitColumnsFlag(nil); got != nil {
		t.Fatalf("splitColumnsFlag(nil) = %v, want nil", got)
	}
}

func TestParseAddressList(t *testing.T) {
	out, err := parseAddressList([]string{"0x0000000000000000000000000000000000000001,0x0000000000000000000000000000000000000002"})
	if err != nil {
		t.Fatalf("parseAddressList err = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("parseAddressList count = %d, want 2", len(out))
	}
}

func TestParseAddressListRejectsInvalid(t *testing.T) {
	if _, err := parseAddressList([]string{"not-an-address"}); err == nil {
		t.Fatal("parseAddressList should reject a non-hex-address token")
	}
}

func TestParseHashListPadsShortScalars(t *testing.T) {
	out, err := parseHashList([]string{"0x1"})
	if err != nil {
		t.Fatalf("parseHashList err = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("parseHashList count = %d, want 1", len(out))
	}
	if out[0][31] != 0x01 {
		t.Fatalf("parseHashList did not left-pad scalar correctly: %x", out[0])
	}
}

func TestParseCallDataList(t *testing.T) {
	out, err := parseCallDataList([]string{"0xdeadbeef"})
	if err != nil {
		t.Fatalf("parseCallDataList err = %v", err)
	}
	if len(out) != 1 || len(out[0]) != 4 {
		t.Fatalf("parseCallDataList = %x, want one 4-byte entry", out)
	}
}

func TestParseCallDataListRejectsInvalidHex(t *testing.T) {
	if _, err := parseCallDataList([]string{"not-hex"}); err == nil {
		t.Fatal("parseCallDataList should reject invalid hex")
	}
}

func TestAttachValueDimsCartesianProduct(t *testing.T) {
	base, err := parseBlocksFlag([]string{"1:2"}, 1000, 0)
	if err != nil {
		t.Fatalf("parseBlocksFlag err = %v", err)
	}
	addr1 := common.HexToAddress("0x0000000000000000000000000000000000000001")
	addr2 := common.HexToAddress("0x0000000000000000000000000000000000000002")
	out := attachValueDims(base, valueDimInputs{Addresses: []common.Address{addr1, addr2}})
	if len(out) != len(base)*2 {
		t.Fatalf("attachValueDims count = %d, want %d (1 block partition x 2 addresses)", len(out), len(base)*2)
	}
	for _, p := range out {
		if len(p.Addresses) != 1 {
			t.Fatalf("attachValueDims partition has %d addresses, want exactly 1 (default group size)", len(p.Addresses))
		}
	}
}

func TestAttachValueDimsNoValuesPassesThrough(t *testing.T) {
	base, err := parseBlocksFlag([]string{"1:2"}, 1000, 0)
	if err != nil {
		t.Fatalf("parseBlocksFlag err = %v", err)
	}
	out := attachValueDims(base, valueDimInputs{})
	if len(out) != len(base) {
		t.Fatalf("attachValueDims with no value dims changed partition count: got %d, want %d", len(out), len(base))
	}
}
