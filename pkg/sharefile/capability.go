package sharefile

// Capability names a permission flag the remote system attaches to an item.
type Capability string

const (
	CanAddFolder             Capability = "CanAddFolder"
	CanAddNode               Capability = "CanAddNode"
	CanView                  Capability = "CanView"
	CanDownload              Capability = "CanDownload"
	CanUpload                Capability = "CanUpload"
	CanSend                  Capability = "CanSend"
	CanDeleteCurrentItem     Capability = "CanDeleteCurrentItem"
	CanDeleteChildItems      Capability = "CanDeleteChildItems"
	CanManagePermissions     Capability = "CanManagePermissions"
	CanCreateOfficeDocuments Capability = "CanCreateOfficeDocuments"
)

// AllCapabilities lists every capability the adapter knows about.
var AllCapabilities = []Capability{
	CanAddFolder,
	CanAddNode,
	CanView,
	CanDownload,
	CanUpload,
	CanSend,
	CanDeleteCurrentItem,
	CanDeleteChildItems,
	CanManagePermissions,
	CanCreateOfficeDocuments,
}

// Known reports whether c is one of AllCapabilities.
func (c Capability) Known() bool {
	for _, known := range AllCapabilities {
		if c == known {
			return true
		}
	}
	return false
}

// Capabilities is the sparse capability bag of an item. A missing key means
// the capability is not granted.
type Capabilities map[Capability]bool

// Allows reports whether c is explicitly granted. Nil maps grant nothing.
func (c Capabilities) Allows(capability Capability) bool {
	return c[capability]
}

// Clone returns an independent copy.
func (c Capabilities) Clone() Capabilities {
	if c == nil {
		return nil
	}
	out := make(Capabilities, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// FullCapabilities grants every known capability.
func FullCapabilities() Capabilities {
	out := make(Capabilities, len(AllCapabilities))
	for _, c := range AllCapabilities {
		out[c] = true
	}
	return out
}

// CapabilitiesFromInfo converts a decoded remote Info object into
// Capabilities. Only boolean true values are kept: absent, false and
// non-boolean entries all mean "not granted".
func CapabilitiesFromInfo(info map[string]any) Capabilities {
	out := make(Capabilities)
	for key, value := range info {
		if granted, ok := value.(bool); ok && granted {
			out[Capability(key)] = true
		}
	}
	return out
}
