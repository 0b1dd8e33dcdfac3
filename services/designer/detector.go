// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package designer builds and mutates infrastructure diagrams from
// free-text prompts, validating every result against the knowledge graph.
//
// This file contains the local rule-based detector: the no-model path from
// a Korean or English prompt to a structured intent. It must terminate and
// produce a result for any input whatsoever.
package designer

import (
	"sort"
	"strings"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
)

// keywordRule maps one component type to its prompt keywords. Keywords are
// lower-case; short ASCII tokens ("db", "lb", "waf") only match on word
// boundaries so "feedback" never reads as a database.
type keywordRule struct {
	typ      datatypes.ComponentType
	keywords []string
}

// componentKeywords is the bilingual detection vocabulary. Matching runs
// longest-keyword-first and masks every match, so "web application firewall"
// claims its text before "firewall" can see it.
var componentKeywords = []keywordRule{
	{datatypes.ComponentWAF, []string{
		"web application firewall", "웹 애플리케이션 방화벽", "웹 방화벽", "웹방화벽", "waf",
	}},
	{datatypes.ComponentFirewall, []string{"firewall", "방화벽"}},
	{datatypes.ComponentIDSIPS, []string{
		"intrusion detection", "intrusion prevention", "침입 탐지", "침입탐지",
		"침입 방지", "ids", "ips",
	}},
	{datatypes.ComponentVPNGateway, []string{
		"vpn gateway", "vpn", "가상 사설망", "가상사설망",
	}},
	{datatypes.ComponentLoadBalancer, []string{
		"load balancer", "load-balancer", "loadbalancer", "로드 밸런서", "로드밸런서",
		"부하 분산", "부하분산", "lb",
	}},
	{datatypes.ComponentProxy, []string{
		"reverse proxy", "리버스 프록시", "proxy", "프록시",
	}},
	{datatypes.ComponentWebServer, []string{
		"web server", "webserver", "web-server", "웹 서버", "웹서버", "nginx", "apache",
	}},
	{datatypes.ComponentDNS, []string{"domain name", "네임서버", "도메인", "dns"}},
	{datatypes.ComponentMailServer, []string{
		"mail server", "메일 서버", "메일서버", "exchange", "e-mail", "email", "메일", "smtp",
	}},
	{datatypes.ComponentAppServer, []string{
		"application server", "애플리케이션 서버", "app server", "api server",
		"api 서버", "앱 서버", "앱서버", "backend", "백엔드", "와스",
	}},
	{datatypes.ComponentAuthServer, []string{
		"authentication", "auth server", "인증 서버", "인증서버", "active directory",
		"싱글 사인온", "auth", "ldap", "sso",
	}},
	{datatypes.ComponentCache, []string{
		"memcached", "caching", "cache", "redis", "캐시", "캐쉬",
	}},
	{datatypes.ComponentSIEM, []string{
		"security information", "보안 관제", "보안관제", "통합 로그", "로그 분석", "siem",
	}},
	{datatypes.ComponentMonitoring, []string{
		"monitoring", "monitor", "grafana", "모니터링", "관제",
	}},
	{datatypes.ComponentDBServer, []string{
		"데이터 베이스", "데이터베이스", "database", "db server", "postgresql", "postgres",
		"mariadb", "mongodb", "mysql", "oracle", "디비", "db",
	}},
	{datatypes.ComponentStorage, []string{
		"object storage", "file server", "파일 서버", "파일서버", "storage",
		"스토리지", "저장소", "nas",
	}},
	{datatypes.ComponentBackup, []string{"backup", "백업"}},
	{datatypes.ComponentCDN, []string{
		"content delivery", "콘텐츠 전송", "씨디엔", "cdn",
	}},
	{datatypes.ComponentUser, []string{"end user", "users", "사용자", "유저", "user"}},
	{datatypes.ComponentInternet, []string{"internet", "인터넷"}},
}

// actionKeywords are checked in precedence order against the prompt after
// component keywords are masked out, so "exchange server" cannot trip the
// "change" verb.
var actionKeywords = []struct {
	action   datatypes.IntentAction
	keywords []string
}{
	{datatypes.ActionRemove, []string{
		"remove", "delete", "uninstall", "take out", "get rid of", "drop",
		"제거", "삭제", "없애", "지워", "지우", "빼",
	}},
	{datatypes.ActionModify, []string{
		"rename", "relabel", "reposition", "replace", "change", "modify",
		"update", "label", "move", "swap",
		"변경", "수정", "바꿔", "바꾸", "이동", "옮겨", "옮기", "교체",
	}},
	{datatypes.ActionAdd, []string{
		"add", "insert", "attach", "include", "append",
		"추가", "붙여", "더해", "달아", "넣",
	}},
	{datatypes.ActionCreate, []string{
		"create", "design", "build", "generate", "set up", "make", "draw",
		"생성", "만들", "설계", "구성", "구축", "그려", "세팅",
	}},
}

// flatKeywords is componentKeywords flattened and sorted longest-first,
// built once at init so every detection pass is a straight scan.
var flatKeywords []struct {
	kw  string
	typ datatypes.ComponentType
}

func init() {
	for _, rule := range componentKeywords {
		for _, kw := range rule.keywords {
			flatKeywords = append(flatKeywords, struct {
				kw  string
				typ datatypes.ComponentType
			}{kw, rule.typ})
		}
	}
	sort.SliceStable(flatKeywords, func(i, j int) bool {
		return len(flatKeywords[i].kw) > len(flatKeywords[j].kw)
	})
}

// DetectIntent runs the rule-based analysis over a prompt: component mentions
// in order of appearance, then an action verb over the remaining text. The
// default action is add when a diagram exists, create otherwise. Returns nil
// when there is nothing to build from: no component named, no create verb,
// and no literal node ID from the current diagram ("remove fw-1" stays
// usable even though "fw-1" is not a vocabulary keyword).
func DetectIntent(prompt string, current *datatypes.InfraSpec) *datatypes.IntentAnalysis {
	components, masked := scanComponents(prompt)
	action := scanAction(masked, current != nil)

	if len(components) == 0 && action != datatypes.ActionCreate && !mentionsNodeID(prompt, current) {
		return nil
	}
	return &datatypes.IntentAnalysis{
		Action:     action,
		Components: components,
		Label:      firstQuoted(prompt),
		Confidence: 1.0,
	}
}

// mentionsNodeID reports whether the prompt names any node of the current
// diagram by its literal ID.
func mentionsNodeID(prompt string, spec *datatypes.InfraSpec) bool {
	if spec == nil {
		return false
	}
	lowered := strings.ToLower(prompt)
	for _, n := range spec.Nodes {
		if containsID(lowered, strings.ToLower(n.ID)) {
			return true
		}
	}
	return false
}

// firstQuoted returns the first double-quoted span in the prompt, the only
// label form the rule-based path extracts ('rename the web server to
// "Frontend"'). The model path can extract unquoted labels.
func firstQuoted(prompt string) string {
	open := strings.IndexByte(prompt, '"')
	if open < 0 {
		return ""
	}
	end := strings.IndexByte(prompt[open+1:], '"')
	if end < 0 {
		return ""
	}
	return prompt[open+1 : open+1+end]
}

// DetectComponents returns the component types mentioned in the prompt, in
// order of first mention.
func DetectComponents(prompt string) []datatypes.ComponentType {
	components, _ := scanComponents(prompt)
	return components
}

// DetectAction returns the action verb detected in the prompt; hasCurrent
// picks the default (add against an existing diagram, create from scratch).
func DetectAction(prompt string, hasCurrent bool) datatypes.IntentAction {
	_, masked := scanComponents(prompt)
	return scanAction(masked, hasCurrent)
}

// scanComponents finds every component keyword, masking each match so
// overlapping shorter keywords cannot double-count. It returns the types in
// order of first appearance plus the masked prompt for verb detection.
func scanComponents(prompt string) ([]datatypes.ComponentType, string) {
	working := strings.ToLower(prompt)
	firstPos := make(map[datatypes.ComponentType]int)

	for _, entry := range flatKeywords {
		from := 0
		for {
			idx := indexKeyword(working, entry.kw, from)
			if idx < 0 {
				break
			}
			working = working[:idx] + strings.Repeat(" ", len(entry.kw)) + working[idx+len(entry.kw):]
			if old, ok := firstPos[entry.typ]; !ok || idx < old {
				firstPos[entry.typ] = idx
			}
			from = idx + len(entry.kw)
		}
	}

	components := make([]datatypes.ComponentType, 0, len(firstPos))
	for typ := range firstPos {
		components = append(components, typ)
	}
	sort.Slice(components, func(i, j int) bool {
		return firstPos[components[i]] < firstPos[components[j]]
	})
	if len(components) == 0 {
		return nil, working
	}
	return components, working
}

// scanAction picks the first action whose verb list hits the masked prompt.
func scanAction(masked string, hasCurrent bool) datatypes.IntentAction {
	for _, entry := range actionKeywords {
		for _, kw := range entry.keywords {
			if indexKeyword(masked, kw, 0) >= 0 {
				return entry.action
			}
		}
	}
	if hasCurrent {
		return datatypes.ActionAdd
	}
	return datatypes.ActionCreate
}

// indexKeyword finds kw in text at or after from. Keywords of four or fewer
// ASCII characters must land on word boundaries; everything else is a plain
// substring match. Multi-byte characters count as boundaries, so an English
// token directly following Korean text still matches.
func indexKeyword(text, kw string, from int) int {
	bounded := len(kw) <= 4 && isASCIIWord(kw)
	for from <= len(text)-len(kw) {
		idx := strings.Index(text[from:], kw)
		if idx < 0 {
			return -1
		}
		idx += from
		if !bounded {
			return idx
		}
		startOK := idx == 0 || !isWordByte(text[idx-1])
		endOK := idx+len(kw) == len(text) || !isWordByte(text[idx+len(kw)])
		if startOK && endOK {
			return idx
		}
		from = idx + 1
	}
	return -1
}

func isASCIIWord(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isWordByte(s[i]) {
			return false
		}
	}
	return true
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
