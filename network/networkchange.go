package network

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/projectdiscovery/gologger"
)

// NetworkChange is a named, ordered collection of FECs describing one
// network change. Grounded on rela/networkmodel/networkchange.py.
type NetworkChange interface {
	GetFEC(dstIp string) FEC
	Iterate() []FEC
	CountFEC() int
	Name() string
}

// RelaGraphNC is the NetworkChange implementation for the relagraphformat
// JSON layout: a top-level JSON array of FEC objects, each holding
// ipTrafficKeys plus a graphBefore/graphAfter pair parsed at one of three
// precisions. Grounded on
// rela/networkmodel/relagraphformat/graphnc.py.
type RelaGraphNC struct {
	// Slices holds one entry per input FEC, in file order. An entry is
	// nil where that FEC failed to parse, preserving FEC count/ordering.
	Slices []*RelaGraphFEC
	name   string
}

func (nc *RelaGraphNC) Name() string { return nc.name }
func (nc *RelaGraphNC) CountFEC() int { return len(nc.Slices) }

// Iterate returns one FEC per slice, in file order, with a nil at every
// index where that FEC failed to parse. Callers must keep the index that
// goes with each entry: it is the position that is skipped, not dropped.
func (nc *RelaGraphNC) Iterate() []FEC {
	out := make([]FEC, len(nc.Slices))
	for i, fec := range nc.Slices {
		if fec == nil {
			out[i] = nil
			continue
		}
		out[i] = fec
	}
	return out
}

// GetFEC returns the first FEC whose traffic keys include dstIp, or nil.
func (nc *RelaGraphNC) GetFEC(dstIp string) FEC {
	for _, fec := range nc.Slices {
		if fec == nil {
			continue
		}
		for _, key := range fec.IpTrafficKeys {
			if key.DstIp == dstIp {
				return fec
			}
		}
	}
	return nil
}

// Precision selects the forwarding-graph granularity a RelaGraphNC JSON
// file is parsed at.
type Precision string

const (
	PrecisionInterface   Precision = "interface"
	PrecisionDevice      Precision = "device"
	PrecisionDeviceGroup Precision = "devicegroup"
)

type rawIPTrafficKey struct {
	SrcIp string `json:"srcIp"`
	DstIp string `json:"dstIp"`
	Qos   int    `json:"qos"`
}

type rawFEC struct {
	IpTrafficKeys []rawIPTrafficKey `json:"ipTrafficKeys"`
	GraphBefore   json.RawMessage   `json:"graphBefore"`
	GraphAfter    json.RawMessage   `json:"graphAfter"`
}

// LoadRelaGraphNC parses jsonFile at the given precision. mappingFile is
// required (and only used) at PrecisionDeviceGroup, supplying the
// device-to-group name mapping. A FEC that fails to parse is logged at
// warn level with its index and file, and recorded as a nil placeholder
// so FEC count and ordering are preserved, mirroring
// RelaGraphNC.from_json's try/except behavior.
func LoadRelaGraphNC(jsonFile string, precision Precision, mappingFile string) (*RelaGraphNC, error) {
	parseGraph, err := graphParserFor(precision, mappingFile)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("network: reading %s: %w", jsonFile, err)
	}
	var raw []rawFEC
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("network: parsing %s: %w", jsonFile, err)
	}

	slices := make([]*RelaGraphFEC, len(raw))
	for i, entry := range raw {
		fec, err := buildFEC(entry, parseGraph)
		if err != nil {
			gologger.Warning().Msgf("Error parsing FEC #%d in %s: %v", i, jsonFile, err)
			slices[i] = nil
			continue
		}
		slices[i] = fec
	}

	return &RelaGraphNC{Slices: slices, name: filepath.Base(jsonFile)}, nil
}

func buildFEC(entry rawFEC, parseGraph func([]byte) (ForwardingGraph, error)) (*RelaGraphFEC, error) {
	keys := make([]IpTrafficKey, len(entry.IpTrafficKeys))
	for i, k := range entry.IpTrafficKeys {
		keys[i] = IpTrafficKey{SrcIp: k.SrcIp, DstIp: k.DstIp, Qos: k.Qos}
	}
	before, err := parseGraph(entry.GraphBefore)
	if err != nil {
		return nil, fmt.Errorf("graphBefore: %w", err)
	}
	after, err := parseGraph(entry.GraphAfter)
	if err != nil {
		return nil, fmt.Errorf("graphAfter: %w", err)
	}
	return &RelaGraphFEC{IpTrafficKeys: keys, GraphBefore: before, GraphAfter: after}, nil
}

func graphParserFor(precision Precision, mappingFile string) (func([]byte) (ForwardingGraph, error), error) {
	switch precision {
	case PrecisionInterface, "":
		return func(data []byte) (ForwardingGraph, error) { return ParseLinkLevelGraph(data) }, nil
	case PrecisionDevice:
		return func(data []byte) (ForwardingGraph, error) { return ParseDeviceLevelGraph(data) }, nil
	case PrecisionDeviceGroup:
		if mappingFile == "" {
			return nil, fmt.Errorf("network: mapping file is required for devicegroup level forwarding graph")
		}
		mappingData, err := os.ReadFile(mappingFile)
		if err != nil {
			return nil, fmt.Errorf("network: reading mapping file %s: %w", mappingFile, err)
		}
		var mapping map[string]string
		if err := json.Unmarshal(mappingData, &mapping); err != nil {
			return nil, fmt.Errorf("network: parsing mapping file %s: %w", mappingFile, err)
		}
		return func(data []byte) (ForwardingGraph, error) {
			return ParseDeviceGroupLevelGraph(mapping, data)
		}, nil
	default:
		return nil, fmt.Errorf("network: unknown precision %q, should be 'interface', 'device' or 'devicegroup'", precision)
	}
}
