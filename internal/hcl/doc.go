// Package hcl provides the HCL implementation of config.Loader. It discovers
// .hcl files, decodes the script, group and workflow blocks they contain, and
// translates them into the format-agnostic config.Definitions.
//
// A definitions file looks like this:
//
//	script "resize" {
//	  name = "Resize Images"
//	  kind = "interpreted"
//	  source = "Scripts/resize.py"
//
//	  parameter "input" {
//	    type     = "directory"
//	    required = true
//	  }
//	  parameter "width" {
//	    type    = "integer"
//	    default = 800
//	  }
//	}
//
//	workflow "thumbnails" {
//	  name = "Thumbnails"
//
//	  node "list" {
//	    script = "find-images"
//	  }
//	  node "resize" {
//	    script = "resize"
//	    map "input" {
//	      node    = "list"
//	      channel = "stdout"
//	    }
//	  }
//
//	  connection {
//	    from = "list"
//	    to   = "resize"
//	  }
//	}
package hcl
