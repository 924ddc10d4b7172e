/*
 * Cherry - An OpenFlow Controller
 *
 * Copyright (C) 2015 Samjung Data Service, Inc. All rights reserved.
 * Kitae Kim <superkkt@sds.co.kr>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

package of11

import (
	"github.com/floodlight/oftest-sub001/openflow"
)

const Version = openflow.OF11_VERSION

const (
	OFPT_HELLO = iota
	OFPT_ERROR
	OFPT_ECHO_REQUEST
	OFPT_ECHO_REPLY
	OFPT_EXPERIMENTER
	OFPT_FEATURES_REQUEST
	OFPT_FEATURES_REPLY
	OFPT_GET_CONFIG_REQUEST
	OFPT_GET_CONFIG_REPLY
	OFPT_SET_CONFIG
	OFPT_PACKET_IN
	OFPT_FLOW_REMOVED
	OFPT_PORT_STATUS
	OFPT_PACKET_OUT
	OFPT_FLOW_MOD
	OFPT_GROUP_MOD
	OFPT_PORT_MOD
	OFPT_TABLE_MOD
	OFPT_STATS_REQUEST
	OFPT_STATS_REPLY
	OFPT_BARRIER_REQUEST
	OFPT_BARRIER_REPLY
	OFPT_QUEUE_GET_CONFIG_REQUEST
	OFPT_QUEUE_GET_CONFIG_REPLY
)

const (
	OFPAT_OUTPUT         = iota /* Output to switch port. */
	OFPAT_SET_VLAN_VID          /* Set the 802.1q VLAN id. */
	OFPAT_SET_VLAN_PCP          /* Set the 802.1q priority. */
	OFPAT_SET_DL_SRC            /* Ethernet source address. */
	OFPAT_SET_DL_DST            /* Ethernet destination address. */
	OFPAT_SET_NW_SRC            /* IP source address. */
	OFPAT_SET_NW_DST            /* IP destination address. */
	OFPAT_SET_NW_TOS            /* IP ToS (DSCP field, 6 bits). */
	OFPAT_SET_NW_ECN            /* IP ECN (2 bits). */
	OFPAT_SET_TP_SRC            /* TCP/UDP/SCTP source port. */
	OFPAT_SET_TP_DST            /* TCP/UDP/SCTP destination port. */
	OFPAT_COPY_TTL_OUT          /* Copy TTL "outwards" -- from next-to-outermost to outermost */
	OFPAT_COPY_TTL_IN           /* Copy TTL "inwards" -- from outermost to next-to-outermost */
	OFPAT_SET_MPLS_LABEL        /* MPLS label */
	OFPAT_SET_MPLS_TC           /* MPLS TC */
	OFPAT_SET_MPLS_TTL          /* MPLS TTL */
	OFPAT_DEC_MPLS_TTL          /* Decrement MPLS TTL */
	OFPAT_PUSH_VLAN             /* Push a new VLAN tag */
	OFPAT_POP_VLAN              /* Pop the outer VLAN tag */
	OFPAT_PUSH_MPLS             /* Push a new MPLS tag */
	OFPAT_POP_MPLS              /* Pop the outer MPLS tag */
	OFPAT_SET_QUEUE             /* Set queue id when outputting to a port */
	OFPAT_GROUP                 /* Apply group. */
	OFPAT_SET_NW_TTL            /* IP TTL. */
	OFPAT_DEC_NW_TTL            /* Decrement IP TTL. */
	OFPAT_EXPERIMENTER   = 0xffff
)

const (
	OFPIT_GOTO_TABLE     = 1 /* Setup the next table in the lookup pipeline */
	OFPIT_WRITE_METADATA = 2 /* Setup the metadata field for use later in pipeline */
	OFPIT_WRITE_ACTIONS  = 3 /* Write the action(s) onto the datapath action set */
	OFPIT_APPLY_ACTIONS  = 4 /* Applies the action(s) immediately */
	OFPIT_CLEAR_ACTIONS  = 5 /* Clears all actions from the datapath action set */
	OFPIT_EXPERIMENTER   = 0xFFFF
)

const (
	OFPP_MAX        = 0xffffff00
	OFPP_IN_PORT    = 0xfffffff8
	OFPP_TABLE      = 0xfffffff9
	OFPP_NORMAL     = 0xfffffffa
	OFPP_FLOOD      = 0xfffffffb
	OFPP_ALL        = 0xfffffffc
	OFPP_CONTROLLER = 0xfffffffd
	OFPP_LOCAL      = 0xfffffffe
	OFPP_ANY        = 0xffffffff
)

const (
	OFPG_ANY  = 0xffffffff
	OFPTT_ALL = 0xff
	OFPQ_ALL  = 0xffffffff
)

const (
	OFPMT_STANDARD = 0
)

const (
	OFPFW_IN_PORT     = 1 << 0 /* Switch input port. */
	OFPFW_DL_VLAN     = 1 << 1 /* VLAN id. */
	OFPFW_DL_VLAN_PCP = 1 << 2 /* VLAN priority. */
	OFPFW_DL_TYPE     = 1 << 3 /* Ethernet frame type. */
	OFPFW_NW_TOS      = 1 << 4 /* IP ToS (DSCP field, 6 bits). */
	OFPFW_NW_PROTO    = 1 << 5 /* IP protocol. */
	OFPFW_TP_SRC      = 1 << 6 /* TCP/UDP/SCTP source port. */
	OFPFW_TP_DST      = 1 << 7 /* TCP/UDP/SCTP destination port. */
	OFPFW_MPLS_LABEL  = 1 << 8 /* MPLS label. */
	OFPFW_MPLS_TC     = 1 << 9 /* MPLS TC. */
	OFPFW_ALL         = (1 << 10) - 1
)

const (
	OFPPF_10MB_HD    = 1 << 0  /* 10 Mb half-duplex rate support. */
	OFPPF_10MB_FD    = 1 << 1  /* 10 Mb full-duplex rate support. */
	OFPPF_100MB_HD   = 1 << 2  /* 100 Mb half-duplex rate support. */
	OFPPF_100MB_FD   = 1 << 3  /* 100 Mb full-duplex rate support. */
	OFPPF_1GB_HD     = 1 << 4  /* 1 Gb half-duplex rate support. */
	OFPPF_1GB_FD     = 1 << 5  /* 1 Gb full-duplex rate support. */
	OFPPF_10GB_FD    = 1 << 6  /* 10 Gb full-duplex rate support. */
	OFPPF_40GB_FD    = 1 << 7  /* 40 Gb full-duplex rate support. */
	OFPPF_100GB_FD   = 1 << 8  /* 100 Gb full-duplex rate support. */
	OFPPF_1TB_FD     = 1 << 9  /* 1 Tb full-duplex rate support. */
	OFPPF_OTHER      = 1 << 10 /* Other rate, not in the list. */
	OFPPF_COPPER     = 1 << 11 /* Copper medium. */
	OFPPF_FIBER      = 1 << 12 /* Fiber medium. */
	OFPPF_AUTONEG    = 1 << 13 /* Auto-negotiation. */
	OFPPF_PAUSE      = 1 << 14 /* Pause. */
	OFPPF_PAUSE_ASYM = 1 << 15 /* Asymmetric pause. */
)

const (
	OFPPC_PORT_DOWN    = 1 << 0
	OFPPC_NO_RECV      = 1 << 2
	OFPPC_NO_FWD       = 1 << 5
	OFPPC_NO_PACKET_IN = 1 << 6
)

const (
	OFPPS_LINK_DOWN = 1 << 0 /* No physical link present. */
	OFPPS_BLOCKED   = 1 << 1 /* Port is blocked */
	OFPPS_LIVE      = 1 << 2 /* Live for Fast Failover Group. */
)

const (
	OFPC_FLOW_STATS   = 1 << 0 /* Flow statistics. */
	OFPC_TABLE_STATS  = 1 << 1 /* Table statistics. */
	OFPC_PORT_STATS   = 1 << 2 /* Port statistics. */
	OFPC_GROUP_STATS  = 1 << 3 /* Group statistics. */
	OFPC_IP_REASM     = 1 << 5 /* Can reassemble IP fragments. */
	OFPC_QUEUE_STATS  = 1 << 6 /* Queue statistics. */
	OFPC_ARP_MATCH_IP = 1 << 7 /* Match IP addresses in ARP pkts. */
)

const (
	OFPC_FRAG_NORMAL               = 0 /* No special handling for fragments. */
	OFPC_FRAG_DROP                 = 1 /* Drop fragments. */
	OFPC_FRAG_REASM                = 2 /* Reassemble (only if OFPC_IP_REASM set). */
	OFPC_FRAG_MASK                 = 3
	OFPC_INVALID_TTL_TO_CONTROLLER = 1 << 2 /* Send packets with invalid TTL to the controller. */
)

const (
	OFPTC_TABLE_MISS_CONTROLLER = 0      /* Send to controller. */
	OFPTC_TABLE_MISS_CONTINUE   = 1 << 0 /* Continue to the next table in the pipeline. */
	OFPTC_TABLE_MISS_DROP       = 1 << 1 /* Drop the packet. */
	OFPTC_TABLE_MISS_MASK       = 3
)

const (
	OFPFF_SEND_FLOW_REM = 1 << 0 /* Send flow removed message when flow expires or is deleted. */
	OFPFF_CHECK_OVERLAP = 1 << 1 /* Check for overlapping entries first. */
)

const (
	OFP_NO_BUFFER = 0xffffffff
)

const (
	OFPFC_ADD           = 0 /* New flow. */
	OFPFC_MODIFY        = 1 /* Modify all matching flows. */
	OFPFC_MODIFY_STRICT = 2 /* Modify entry strictly matching wildcards and priority. */
	OFPFC_DELETE        = 3 /* Delete all matching flows. */
	OFPFC_DELETE_STRICT = 4 /* Delete entry strictly matching wildcards and priority. */
)

const (
	OFPST_DESC         = 0
	OFPST_FLOW         = 1
	OFPST_AGGREGATE    = 2
	OFPST_TABLE        = 3
	OFPST_PORT         = 4
	OFPST_QUEUE        = 5
	OFPST_GROUP        = 6
	OFPST_GROUP_DESC   = 7
	OFPST_EXPERIMENTER = 0xffff
)

const (
	OFPSF_REPLY_MORE = 1 << 0 /* More replies to follow. */
)

const (
	OFPR_NO_MATCH = 0 /* No matching flow. */
	OFPR_ACTION   = 1 /* Action explicitly output to controller. */
)

const (
	OFPRR_IDLE_TIMEOUT = 0 /* Flow idle time exceeded idle_timeout. */
	OFPRR_HARD_TIMEOUT = 1 /* Time exceeded hard_timeout. */
	OFPRR_DELETE       = 2 /* Evicted by a DELETE flow mod. */
	OFPRR_GROUP_DELETE = 3 /* Group was removed. */
)

const (
	OFPPR_ADD    = 0
	OFPPR_DELETE = 1
	OFPPR_MODIFY = 2
)

const (
	OFPET_HELLO_FAILED         = iota /* Hello protocol failed. */
	OFPET_BAD_REQUEST                 /* Request was not understood. */
	OFPET_BAD_ACTION                  /* Error in action description. */
	OFPET_BAD_INSTRUCTION             /* Error in instruction list. */
	OFPET_BAD_MATCH                   /* Error in match. */
	OFPET_FLOW_MOD_FAILED             /* Problem modifying flow entry. */
	OFPET_GROUP_MOD_FAILED            /* Problem modifying group entry. */
	OFPET_PORT_MOD_FAILED             /* Port mod request failed. */
	OFPET_TABLE_MOD_FAILED            /* Table mod request failed. */
	OFPET_QUEUE_OP_FAILED             /* Queue operation failed. */
	OFPET_SWITCH_CONFIG_FAILED        /* Switch config request failed. */
)

const (
	OFPHFC_INCOMPATIBLE = 0 /* No compatible version. */
	OFPHFC_EPERM        = 1 /* Permissions error. */
)

const (
	DESC_STR_LEN   = 256
	SERIAL_NUM_LEN = 32
	MAX_PORT_NAME  = 16
	MAX_TABLE_NAME = 32
)

const (
	OFPVID_ANY  = 0xfffe /* Indicate that a VLAN id is set but don't care about its value. */
	OFPVID_NONE = 0xffff /* No VLAN id was set. */
)
