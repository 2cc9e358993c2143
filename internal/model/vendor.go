package model

import "strings"

// Vendor identifies the CLI dialect that produced a capture.
type Vendor string

const (
	VendorHuawei  Vendor = "huawei"  // 华为 VRP
	VendorH3C     Vendor = "h3c"     // H3C / HPE Comware
	VendorUnknown Vendor = "unknown" // 未识别
)

// SupportedVendors lists the vendors that have an inspector.
var SupportedVendors = []Vendor{VendorHuawei, VendorH3C}

// ParseVendor converts a free-form vendor name into a Vendor.
// Platform aliases used by collectors (huawei_vrp, hp_comware, ...) are accepted.
func ParseVendor(s string) Vendor {
	name := strings.ToLower(strings.TrimSpace(s))
	switch {
	case name == "":
		return VendorUnknown
	case strings.Contains(name, "huawei"), strings.Contains(name, "vrp"):
		return VendorHuawei
	case strings.Contains(name, "h3c"), strings.Contains(name, "comware"), name == "hp":
		return VendorH3C
	default:
		return VendorUnknown
	}
}

// IsSupported returns true if an inspector exists for this vendor.
func (v Vendor) IsSupported() bool {
	return v == VendorHuawei || v == VendorH3C
}

// DisplayName returns the vendor name shown in reports.
func (v Vendor) DisplayName() string {
	switch v {
	case VendorHuawei:
		return "华为"
	case VendorH3C:
		return "H3C"
	default:
		return "未知"
	}
}
