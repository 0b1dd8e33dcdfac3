// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides the core data structures for the designer
// service.
//
// This file contains the closed component vocabulary: every node in an
// infrastructure diagram carries exactly one ComponentType, and every type
// maps to a network tier. The vocabulary is deliberately small; anything the
// intent layer cannot map onto it is dropped rather than guessed.
package datatypes

import "strings"

// ComponentType identifies a kind of infrastructure component.
type ComponentType string

const (
	ComponentFirewall     ComponentType = "firewall"
	ComponentWAF          ComponentType = "waf"
	ComponentIDSIPS       ComponentType = "ids-ips"
	ComponentWebServer    ComponentType = "web-server"
	ComponentAppServer    ComponentType = "app-server"
	ComponentDBServer     ComponentType = "db-server"
	ComponentLoadBalancer ComponentType = "load-balancer"
	ComponentCache        ComponentType = "cache"
	ComponentVPNGateway   ComponentType = "vpn-gateway"
	ComponentDNS          ComponentType = "dns"
	ComponentCDN          ComponentType = "cdn"
	ComponentProxy        ComponentType = "proxy"
	ComponentAuthServer   ComponentType = "auth-server"
	ComponentMonitoring   ComponentType = "monitoring"
	ComponentSIEM         ComponentType = "siem"
	ComponentStorage      ComponentType = "storage"
	ComponentBackup       ComponentType = "backup"
	ComponentMailServer   ComponentType = "mail-server"
	ComponentInternet     ComponentType = "internet"
	ComponentUser         ComponentType = "user"
)

// Tier is the network tier a component conventionally lives in. Tiers order
// outermost to innermost: external, dmz, internal, data.
type Tier string

const (
	TierExternal Tier = "external"
	TierDMZ      Tier = "dmz"
	TierInternal Tier = "internal"
	TierData     Tier = "data"
)

// tierOrder positions tiers outermost-first for adjacency inference.
var tierOrder = map[Tier]int{
	TierExternal: 0,
	TierDMZ:      1,
	TierInternal: 2,
	TierData:     3,
}

// Depth returns the tier's position, 0 (external) through 3 (data).
func (t Tier) Depth() int {
	return tierOrder[t]
}

// componentInfo carries the per-type metadata the designer needs: tier
// placement, a stable short prefix for generated node IDs, a display label,
// and whether the type is a security control (weighs removals in risk
// scoring).
type componentInfo struct {
	tier     Tier
	idPrefix string
	label    string
	security bool
}

var componentCatalog = map[ComponentType]componentInfo{
	ComponentInternet:     {TierExternal, "internet", "Internet", false},
	ComponentUser:         {TierExternal, "user", "User", false},
	ComponentCDN:          {TierExternal, "cdn", "CDN", false},
	ComponentFirewall:     {TierDMZ, "fw", "Firewall", true},
	ComponentWAF:          {TierDMZ, "waf", "WAF", true},
	ComponentIDSIPS:       {TierDMZ, "ids", "IDS/IPS", true},
	ComponentLoadBalancer: {TierDMZ, "lb", "Load Balancer", false},
	ComponentWebServer:    {TierDMZ, "web", "Web Server", false},
	ComponentVPNGateway:   {TierDMZ, "vpn", "VPN Gateway", true},
	ComponentDNS:          {TierDMZ, "dns", "DNS", false},
	ComponentProxy:        {TierDMZ, "proxy", "Proxy", false},
	ComponentMailServer:   {TierDMZ, "mail", "Mail Server", false},
	ComponentAppServer:    {TierInternal, "app", "App Server", false},
	ComponentCache:        {TierInternal, "cache", "Cache", false},
	ComponentAuthServer:   {TierInternal, "auth", "Auth Server", true},
	ComponentMonitoring:   {TierInternal, "mon", "Monitoring", false},
	ComponentSIEM:         {TierInternal, "siem", "SIEM", true},
	ComponentDBServer:     {TierData, "db", "DB Server", false},
	ComponentStorage:      {TierData, "stor", "Storage", false},
	ComponentBackup:       {TierData, "bak", "Backup", false},
}

// AllComponentTypes returns the full vocabulary in tier order (outermost
// first), stable across calls.
func AllComponentTypes() []ComponentType {
	out := make([]ComponentType, 0, len(componentCatalog))
	for _, tier := range []Tier{TierExternal, TierDMZ, TierInternal, TierData} {
		out = append(out, tierMembers[tier]...)
	}
	return out
}

// ChainIndex returns the component's position in the conventional
// external→dmz→internal→data wiring order. Lower values sit closer to the
// traffic entry point; the gap between tiers is larger than any tier's
// member count, so tier always dominates within-tier position.
func (t ComponentType) ChainIndex() int {
	tier := t.Tier()
	base := tier.Depth() * 100
	for i, m := range tierMembers[tier] {
		if m == t {
			return base + i
		}
	}
	return base + len(tierMembers[tier])
}

// tierMembers lists each tier's types in conventional traffic order
// (entry point first). Drives deterministic iteration and default wiring.
var tierMembers = map[Tier][]ComponentType{
	TierExternal: {ComponentUser, ComponentInternet, ComponentCDN},
	TierDMZ: {
		ComponentFirewall, ComponentWAF, ComponentIDSIPS, ComponentVPNGateway,
		ComponentLoadBalancer, ComponentProxy, ComponentWebServer,
		ComponentDNS, ComponentMailServer,
	},
	TierInternal: {
		ComponentAppServer, ComponentAuthServer, ComponentCache,
		ComponentMonitoring, ComponentSIEM,
	},
	TierData: {ComponentDBServer, ComponentStorage, ComponentBackup},
}

// Valid reports whether t is part of the closed vocabulary.
func (t ComponentType) Valid() bool {
	_, ok := componentCatalog[t]
	return ok
}

// Tier returns the tier the component conventionally belongs to.
// Unknown types report TierExternal; callers should Valid()-check first.
func (t ComponentType) Tier() Tier {
	return componentCatalog[t].tier
}

// IDPrefix returns the short prefix used for generated node IDs
// ("fw" for firewall, "web" for web-server).
func (t ComponentType) IDPrefix() string {
	if info, ok := componentCatalog[t]; ok {
		return info.idPrefix
	}
	return string(t)
}

// DisplayName returns the human-readable label used when a node is created
// without an explicit label.
func (t ComponentType) DisplayName() string {
	if info, ok := componentCatalog[t]; ok {
		return info.label
	}
	return string(t)
}

// IsSecurity reports whether the type is a security control. Removing a
// security control is weighted more heavily during change risk assessment.
func (t ComponentType) IsSecurity() bool {
	return componentCatalog[t].security
}

// ParseComponentType normalizes s (trim, lower-case, spaces and underscores
// to hyphens) and returns the matching type. ok is false when the normalized
// string is outside the vocabulary.
func ParseComponentType(s string) (ComponentType, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "_", "-")
	norm = strings.ReplaceAll(norm, " ", "-")
	if alias, ok := componentAliases[norm]; ok {
		return alias, true
	}
	t := ComponentType(norm)
	if t.Valid() {
		return t, true
	}
	return "", false
}

// componentAliases maps common spellings from model output onto canonical
// types. Keys are pre-normalized (lower-case, hyphenated).
var componentAliases = map[string]ComponentType{
	"webserver":              ComponentWebServer,
	"web":                    ComponentWebServer,
	"appserver":              ComponentAppServer,
	"application-server":     ComponentAppServer,
	"app":                    ComponentAppServer,
	"database":               ComponentDBServer,
	"database-server":        ComponentDBServer,
	"db":                     ComponentDBServer,
	"dbserver":               ComponentDBServer,
	"web-application-firewall": ComponentWAF,
	"ids":                    ComponentIDSIPS,
	"ips":                    ComponentIDSIPS,
	"ids/ips":                ComponentIDSIPS,
	"loadbalancer":           ComponentLoadBalancer,
	"vpn":                    ComponentVPNGateway,
	"reverse-proxy":          ComponentProxy,
	"authentication-server":  ComponentAuthServer,
	"auth":                   ComponentAuthServer,
	"mail":                   ComponentMailServer,
	"smtp":                   ComponentMailServer,
	"redis":                  ComponentCache,
	"nas":                    ComponentStorage,
	"san":                    ComponentStorage,
}
